package main

import "github.com/df07/go-bidi-raytracer/cmd"

func main() {
	cmd.Execute()
}
