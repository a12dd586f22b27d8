// Package job loads compositing jobs from HCL files.
//
// A job file declares the canvas in an output block, the editor graph in
// node and link blocks, and the files the output nodes write:
//
//	output {
//	  width  = 320
//	  height = 240
//	}
//
//	node "rgb" "red" {
//	  color = [1, 0, 0, 1]
//	}
//
//	node "composite" "out" {
//	  path = "out.png"
//	}
//
//	link {
//	  from = "red.RGBA"
//	  to   = "out.Image"
//	}
//
// Every attribute of a node block other than muted and inputs becomes a
// node property. inputs overrides socket defaults by socket name.
package job

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/gogpu/compositor"
)

// Output is the canvas configuration of a job.
type Output struct {
	Width   int
	Height  int
	Sampler string
	Quality string
}

// Job is a decoded job file.
type Job struct {
	// Path is the job file, Dir the directory relative paths resolve
	// against.
	Path string
	Dir  string

	Output Output
	Tree   *compositor.Tree

	// Files maps output node names to the file they write. Output nodes
	// without a path produce in-memory results only.
	Files map[string]string
}

// fileRoot decodes the top-level blocks of a job file.
type fileRoot struct {
	Output *outputBlock `hcl:"output,block"`
	Nodes  []*nodeBlock `hcl:"node,block"`
	Links  []*linkBlock `hcl:"link,block"`
}

type outputBlock struct {
	Width   int    `hcl:"width"`
	Height  int    `hcl:"height"`
	Sampler string `hcl:"sampler,optional"`
	Quality string `hcl:"quality,optional"`
}

type nodeBlock struct {
	Kind   string         `hcl:"kind,label"`
	Name   string         `hcl:"name,label"`
	Muted  bool           `hcl:"muted,optional"`
	Inputs hcl.Expression `hcl:"inputs,optional"`
	Remain hcl.Body       `hcl:",remain"`
}

type linkBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// Load reads and decodes the job file at path.
func Load(path string) (*Job, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes a job file. filename is used in diagnostics and as the base
// for relative paths.
func Parse(src []byte, filename string) (*Job, error) {
	logger := compositor.Logger()

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse job file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode job file %s: %w", filename, diags)
	}
	if root.Output == nil {
		return nil, fmt.Errorf("job file %s: missing output block", filename)
	}

	dir := filepath.Dir(filename)
	j := &Job{
		Path: filename,
		Dir:  dir,
		Output: Output{
			Width:   root.Output.Width,
			Height:  root.Output.Height,
			Sampler: root.Output.Sampler,
			Quality: root.Output.Quality,
		},
		Tree:  &compositor.Tree{},
		Files: make(map[string]string),
	}

	for _, nb := range root.Nodes {
		n, err := translateNode(nb)
		if err != nil {
			return nil, err
		}
		j.Tree.Nodes = append(j.Tree.Nodes, n)
		if isOutputKind(n.Kind) {
			if p, ok := n.Properties["path"].(string); ok && p != "" {
				j.Files[n.Name] = resolvePath(dir, p)
			}
		}
	}
	for _, lb := range root.Links {
		l, err := translateLink(lb)
		if err != nil {
			return nil, err
		}
		j.Tree.Links = append(j.Tree.Links, l)
	}

	if err := j.Tree.Validate(); err != nil {
		return nil, fmt.Errorf("job file %s: %w", filename, err)
	}

	logger.Debug("job loaded", "path", filename, "nodes", len(j.Tree.Nodes), "links", len(j.Tree.Links), "files", len(j.Files))
	return j, nil
}

// Options returns the context options the output block selects.
func (j *Job) Options() ([]compositor.Option, error) {
	var opts []compositor.Option
	if j.Output.Sampler != "" {
		s, err := compositor.ParsePixelSampler(j.Output.Sampler)
		if err != nil {
			return nil, fmt.Errorf("output sampler: %w", err)
		}
		opts = append(opts, compositor.WithSampler(s))
	}
	if j.Output.Quality != "" {
		q, err := compositor.ParseQuality(j.Output.Quality)
		if err != nil {
			return nil, fmt.Errorf("output quality: %w", err)
		}
		opts = append(opts, compositor.WithQuality(q))
	}
	opts = append(opts, compositor.WithImageSource(compositor.NewFileImageSource(j.Dir)))
	return opts, nil
}

func translateNode(nb *nodeBlock) (*compositor.TreeNode, error) {
	n := &compositor.TreeNode{
		Name:       nb.Name,
		Kind:       nb.Kind,
		Muted:      nb.Muted,
		Properties: compositor.Properties{},
	}

	if isExprDefined(nb.Inputs) {
		defaults, err := decodeInputs(nb.Inputs)
		if err != nil {
			return nil, fmt.Errorf("node %q: inputs: %w", nb.Name, err)
		}
		n.Defaults = defaults
	}

	if nb.Remain != nil {
		attrs, diags := nb.Remain.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("node %q: %w", nb.Name, diags)
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("node %q: attribute %s: %w", nb.Name, name, diags)
			}
			native, err := ctyToNative(val)
			if err != nil {
				return nil, fmt.Errorf("node %q: attribute %s: %w", nb.Name, name, err)
			}
			n.Properties[name] = native
		}
	}
	return n, nil
}

func translateLink(lb *linkBlock) (*compositor.TreeLink, error) {
	fromNode, fromSocket, err := splitEndpoint(lb.From)
	if err != nil {
		return nil, fmt.Errorf("link from: %w", err)
	}
	toNode, toSocket, err := splitEndpoint(lb.To)
	if err != nil {
		return nil, fmt.Errorf("link to: %w", err)
	}
	return &compositor.TreeLink{
		FromNode: fromNode, FromSocket: fromSocket,
		ToNode: toNode, ToSocket: toSocket,
	}, nil
}

// splitEndpoint splits "node.Socket" at the last dot.
func splitEndpoint(s string) (node, socket string, err error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("%q is not of the form node.Socket", s)
	}
	return s[:i], s[i+1:], nil
}

// isExprDefined reports whether expr was written in the source. Omitted
// optional attributes decode to zero-width expressions.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

func isOutputKind(kind string) bool {
	return kind == "composite" || kind == "viewer"
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
