// Package printer handles output formatting and display
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/bethropolis/exscan/internal/walker"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// Printer writes accepted scan entries to the configured output. It is
// safe for use by concurrent walker workers.
type Printer struct {
	mu             sync.Mutex
	output         io.Writer
	count          atomic.Int64
	bytes          atomic.Int64
	useColors      bool
	jsonOutput     bool
	jsonStarted    bool
	markdownOutput bool
	markdownHeader bool
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output:    os.Stdout,
		useColors: true,
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithJSON enables JSON output mode
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// WithMarkdown enables Markdown output mode
func (p *Printer) WithMarkdown(enabled bool) *Printer {
	p.markdownOutput = enabled
	return p
}

// JSONEntry represents a file entry in JSON output
type JSONEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Mode string `json:"mode"`
}

// PrintEntry outputs one accepted file
func (p *Printer) PrintEntry(entry walker.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.count.Add(1)
	p.bytes.Add(entry.Size)

	switch {
	case p.jsonOutput:
		if !p.jsonStarted {
			fmt.Fprint(p.output, "[\n")
			p.jsonStarted = true
		} else {
			fmt.Fprint(p.output, ",\n")
		}

		jsonData, err := json.MarshalIndent(JSONEntry{
			Path: entry.Path,
			Size: entry.Size,
			Mode: entry.Mode.String(),
		}, "  ", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
			return
		}
		fmt.Fprintf(p.output, "  %s", jsonData)

	case p.markdownOutput:
		if !p.markdownHeader {
			fmt.Fprint(p.output, "| path | size | mode |\n|---|---:|---|\n")
			p.markdownHeader = true
		}
		fmt.Fprintf(p.output, "| `%s` | %s | `%s` |\n", entry.Path, humanize.IBytes(uint64(entry.Size)), entry.Mode)

	default:
		path := entry.Path
		if p.useColors {
			path = color.New(color.FgCyan, color.Bold).Sprint(path)
		}
		fmt.Fprintf(p.output, "%s\t%s\n", path, humanize.IBytes(uint64(entry.Size)))
	}
}

// Finalize completes any pending operations (like closing JSON array)
func (p *Printer) Finalize() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.jsonOutput {
		if p.jsonStarted {
			fmt.Fprint(p.output, "\n]\n")
		} else {
			fmt.Fprint(p.output, "[]\n")
		}
	}
}

// GetCount returns the number of entries printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}

// TotalBytes returns the summed size of the printed entries
func (p *Printer) TotalBytes() int64 {
	return p.bytes.Load()
}
