//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Renders the triangle into output.png.
func (Run) Triangle() error {
	fmt.Println("Rendering output.png...")
	if _, err := executeCmd("go", withArgs("run", ".", "--flip-y"), withStream()); err != nil {
		return err
	}
	return nil
}

// Renders $LUMEN_SCENE (default scene.toml) and re-renders on every save.
func (Run) Watch() error {
	scene := os.Getenv("LUMEN_SCENE")
	if scene == "" {
		scene = "scene.toml"
	}
	if _, err := executeCmd("go", withArgs("run", ".", "--config", scene, "--watch", "--log-level", "debug"), withStream()); err != nil {
		return err
	}
	return nil
}
