// The rbxm-stat command displays stats for a roblox file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/robloxapi/rbxm"
	"github.com/robloxapi/rbxm/rbxbin"
)

const usage = `usage: rbxm-stat [-place] [INPUT] [OUTPUT]

Reads a binary RBXL or RBXM file from INPUT, and writes to OUTPUT statistics
for the file.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

// maxLargest bounds the LargestProperties list.
const maxLargest = 20

// PropSize locates one variable-size property and its length in bytes or
// keypoints.
type PropSize struct {
	Class    string
	Property string
	Type     string
	Length   int
}

// Stats summarizes a decoded instance tree.
type Stats struct {
	// Number of instances overall.
	InstanceCount int

	// Number of properties overall.
	PropertyCount int

	// Number of instances per class.
	ClassCount map[string]int

	// Number of properties per type.
	TypeCount map[string]int

	// Number of optional properties per inner type.
	OptionalTypeCount map[string]int `json:",omitempty"`

	// The largest variable-size properties, by descending length.
	LargestProperties []PropSize `json:",omitempty"`
}

// valueSize returns the length of a variable-size value, or false for values
// whose size is fixed by their type.
func valueSize(value rbxm.Value) (n int, ok bool) {
	switch value := value.(type) {
	case rbxm.ValueString:
		return len(value), true
	case rbxm.ValueBinaryString:
		return len(value), true
	case rbxm.ValueProtectedString:
		return len(value), true
	case rbxm.ValueContent:
		return len(value), true
	case rbxm.ValueSharedString:
		return len(value), true
	case rbxm.ValueNumberSequence:
		return len(value), true
	case rbxm.ValueColorSequence:
		return len(value), true
	}
	return 0, false
}

func (s *Stats) visit(inst *rbxm.Instance) {
	s.InstanceCount++
	s.ClassCount[inst.ClassName]++
	for name, value := range inst.Properties {
		if value == nil {
			continue
		}
		s.PropertyCount++
		s.TypeCount[value.Type().String()]++
		if opt, ok := value.(rbxm.ValueOptional); ok {
			s.OptionalTypeCount[opt.ValueType.String()]++
		}
		if n, ok := valueSize(value); ok {
			s.LargestProperties = append(s.LargestProperties, PropSize{
				Class:    inst.ClassName,
				Property: name,
				Type:     value.Type().String(),
				Length:   n,
			})
		}
	}
	for _, child := range inst.Children() {
		s.visit(child)
	}
}

func collect(root *rbxm.Root) *Stats {
	s := &Stats{
		ClassCount:        map[string]int{},
		TypeCount:         map[string]int{},
		OptionalTypeCount: map[string]int{},
	}
	if root == nil {
		return s
	}
	for _, inst := range root.Instances {
		s.visit(inst)
	}
	sort.Slice(s.LargestProperties, func(i, j int) bool {
		a, b := s.LargestProperties[i], s.LargestProperties[j]
		if a.Length != b.Length {
			return a.Length > b.Length
		}
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		return a.Property < b.Property
	})
	if len(s.LargestProperties) > maxLargest {
		s.LargestProperties = s.LargestProperties[:maxLargest]
	}
	return s
}

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	place := flag.Bool("place", false, "Decode as a place rather than a model.")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("open input: %w", err))
			return
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			return
		}
		defer out.Close()
		defer func() {
			err := out.Sync()
			if err != nil {
				fmt.Fprintln(os.Stderr, fmt.Errorf("sync output: %w", err))
				return
			}
		}()
		output = out
	}

	mode := rbxbin.Model
	if *place {
		mode = rbxbin.Place
	}

	root, warn, err := rbxbin.Decoder{Mode: mode}.Decode(input)
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode warning: %w", warn))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode error: %w", err))
	}

	je := json.NewEncoder(output)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	if err := je.Encode(collect(root)); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("write error: %w", err))
	}
}
