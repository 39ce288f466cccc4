package resources

/**
 * @brief The description of a scene as read from a TOML file. Every field is
 * optional; a document only overrides the keys it sets.
 */
type SceneConfig struct {
	Output   OutputConfig   `toml:"output"`
	Geometry GeometryConfig `toml:"geometry"`
	Texture  TextureConfig  `toml:"texture"`
	Material MaterialConfig `toml:"material"`
	Camera   CameraConfig   `toml:"camera"`
	Lights   []LightConfig  `toml:"lights"`
	Renderer RendererConfig `toml:"renderer"`
}

type OutputConfig struct {
	/** @brief The image file to write; the extension selects the encoder. */
	Path   string `toml:"path"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	/** @brief Write the image upright instead of bottom row first. */
	FlipY bool `toml:"flip_y"`
}

type GeometryConfig struct {
	/** @brief xyz triples. */
	Vertices []float32 `toml:"vertices"`
	/** @brief Three indices per triangle. */
	Indices []int32 `toml:"indices"`
	/** @brief One uv pair per vertex. */
	TexCoords []float32 `toml:"texcoords"`
}

type TextureConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	/** @brief A texture format name, e.g. "rgb8" or "srgba". */
	Format string `toml:"format"`
	/** @brief "nearest" or "linear". */
	Filter string  `toml:"filter"`
	Texels []uint8 `toml:"texels"`
	/**
	 * @brief An image file (png, bmp, tiff) used instead of Texels, relative
	 * to the scene file.
	 */
	Image string `toml:"image"`
}

type MaterialConfig struct {
	/** @brief Diffuse colour; unset keeps the library default. */
	Kd []float32 `toml:"kd"`
}

type CameraConfig struct {
	Type      string     `toml:"type"`
	Position  [3]float32 `toml:"position"`
	Direction [3]float32 `toml:"direction"`
	Up        [3]float32 `toml:"up"`
	Height    float32    `toml:"height"`
	Width     float32    `toml:"width"`
	Aspect    float32    `toml:"aspect"`
	FovY      float32    `toml:"fovy"`
}

type LightConfig struct {
	Type      string     `toml:"type"`
	Color     [3]float32 `toml:"color"`
	Intensity float32    `toml:"intensity"`
	Direction [3]float32 `toml:"direction"`
}

type RendererConfig struct {
	Type          string     `toml:"type"`
	SPP           int        `toml:"spp"`
	MaxDepth      int        `toml:"max_depth"`
	RouletteDepth int        `toml:"roulette_depth"`
	BgColor       [4]float32 `toml:"bg_color"`
}
