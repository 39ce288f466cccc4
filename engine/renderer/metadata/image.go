package metadata

/**
 * @brief Decoded pixels of an image file, top row first.
 */
type ImageResourceData struct {
	/** @brief The number of channels. */
	ChannelCount uint8
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief The pixel data of the image, Width*Height*ChannelCount bytes. */
	Pixels []uint8
}

/** @brief Parameters used when loading an image. */
type ImageResourceParams struct {
	/**
	 * @brief Indicates if the image should be flipped on the y-axis when loaded,
	 * so that row 0 becomes the bottom row as textures expect.
	 */
	FlipY bool
	/** @brief Number of channels to keep: 3 (RGB) or 4 (RGBA). 0 keeps 4. */
	Channels uint8
}
