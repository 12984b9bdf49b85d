package main

// Options are the command line flags of stylize-cli.
type Options struct {
	Content string `short:"c" long:"content" description:"content image path" required:"true"`
	Style   string `short:"s" long:"style" description:"style image path" required:"true"`
	Output  string `short:"o" long:"output" description:"output image path, format by extension" default:"stylized.png"`
	MaxDim  int    `long:"max-dim" description:"longer side of both images before inference (0 = config value)"`
	Config  string `long:"config" description:"stylize.yaml or stylize.toml to load"`
	Verbose bool   `short:"v" long:"verbose" description:"debug logging"`
}
