package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mmd2svg <command> [flags] [args]")
	fmt.Fprintln(w, "       mmd2svg [flags] <input>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Extract a Mermaid flowchart from text and render it (default)")
	fmt.Fprintln(w, "  doctor     Check mmdc, Chrome and the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mmd2svg help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mmd2svg convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extract a Mermaid flowchart from text (for example an LLM reply),")
	fmt.Fprintln(w, "validate it, and render it to SVG with the mermaid CLI. Without mmdc,")
	fmt.Fprintln(w, "an HTML document that draws the diagram in a browser is written instead.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Text file, or - for stdin (output: diagram.svg)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>          Output file (single input) or directory")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path (.yaml, .yml, .toml)")
	fmt.Fprintln(w, "      --print-source           Print the extracted diagram source")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -e, --engine <s>             auto, cli, html, browser (default: auto)")
	fmt.Fprintln(w, "      --bin <path>             mermaid CLI executable (default: mmdc)")
	fmt.Fprintln(w, "  -b, --background <s>         Background color (default: transparent)")
	fmt.Fprintln(w, "  -t, --theme <s>              Theme: default, forest, dark, neutral")
	fmt.Fprintln(w, "      --mermaid-config <path>  mermaid JSON config passed to mmdc")
	fmt.Fprintln(w, "      --puppeteer-config <p>   Puppeteer JSON config passed to mmdc")
	fmt.Fprintln(w, "      --timeout <d>            Render timeout, e.g. 30s (default: none)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "HTML fallback:")
	fmt.Fprintln(w, "      --script-url <url>       mermaid.js location (default: jsDelivr CDN)")
	fmt.Fprintln(w, "      --template <path>        Custom HTML template")
	fmt.Fprintln(w, "      --no-source              Omit the highlighted source listing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Show engine and timing")
	fmt.Fprintln(w, "      --no-color               Disable colored output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MMD2SVG_CONFIG, MMD2SVG_ENGINE, MMD2SVG_BIN, MMD2SVG_TIMEOUT,")
	fmt.Fprintln(w, "  MMD2SVG_OUTPUT_DIR, MMD2SVG_THEME (a .env file is also read)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 1 error, 2 usage or invalid diagram, 3 I/O, 4 converter")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mmd2svg doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the mermaid CLI, Chrome for the browser engine, container/CI")
	fmt.Fprintln(w, "detection and the temp directory.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mmd2svg version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mmd2svg help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
