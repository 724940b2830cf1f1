package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goliatone/go-shelf/internal/manuscripts"
)

func main() {
	var (
		filePath   = flag.String("file", "", "Manuscript file to preview")
		renderHTML = flag.Bool("render-html", true, "Render the markdown body into HTML as part of the preview")
		hardWraps  = flag.Bool("hard-wraps", false, "Treat single newlines as hard breaks when rendering")
		allowHTML  = flag.Bool("allow-html", false, "Let raw HTML in the body pass through to the output")
	)

	flag.Parse()

	if *filePath == "" {
		log.Fatalf("--file is required")
	}

	source, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read manuscript: %v", err)
	}
	info, err := os.Stat(*filePath)
	var modTime time.Time
	if err == nil {
		modTime = info.ModTime()
	}

	doc, err := manuscripts.ParseDocument(*filePath, source, modTime)
	if err != nil {
		log.Fatalf("parse manuscript: %v", err)
	}

	fmt.Fprintf(os.Stdout, "Path: %s\nType: %s\nKind: %s\nSlug: %s\nLocale: %s\n\n", doc.Path, doc.Type, doc.Kind, doc.Slug, doc.Locale)

	if doc.Raw != nil {
		frontmatter, err := json.MarshalIndent(doc.Raw, "", "  ")
		if err == nil {
			fmt.Fprintf(os.Stdout, "Frontmatter:\n%s\n\n", frontmatter)
		}
	}

	if *renderHTML {
		renderer := manuscripts.NewRenderer(manuscripts.RenderOptions{
			HardWraps: *hardWraps,
			AllowHTML: *allowHTML,
		})
		html, err := renderer.Render(doc.Body)
		if err != nil {
			log.Fatalf("render manuscript: %v", err)
		}
		fmt.Fprintf(os.Stdout, "Rendered HTML:\n%s\n", string(html))
	} else {
		fmt.Fprintf(os.Stdout, "Markdown Body:\n%s\n", string(doc.Body))
	}
}
