package rbxbin

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode"
)

// dumpableSig returns the printable characters of a chunk signature.
func dumpableSig(sig [4]byte) string {
	b := make([]byte, 0, 4)
	for _, c := range sig {
		if unicode.IsPrint(rune(c)) {
			b = append(b, c)
		}
	}
	return string(b)
}

func dumpNewline(w *bufio.Writer, indent int) {
	w.WriteByte('\n')
	for i := 0; i < indent; i++ {
		w.WriteByte('\t')
	}
}

func dumpSig(w *bufio.Writer, sig [4]byte) {
	w.WriteString(dumpableSig(sig))
	fmt.Fprintf(w, " (% 02X)", sig[:])
}

// dumpBytes writes b as rows of 16 hexadecimal octets with an ASCII gutter.
func dumpBytes(w *bufio.Writer, indent int, b []byte) {
	for i := 0; i < len(b); i += 16 {
		dumpNewline(w, indent)
		w.WriteByte('|')
		row := b[i:]
		if len(row) > 16 {
			row = row[:16]
		}
		for j := 0; j < 16; j++ {
			if j == 8 {
				w.WriteByte(' ')
			}
			if j < len(row) {
				fmt.Fprintf(w, " %02x", row[j])
			} else {
				w.WriteString("   ")
			}
		}
		w.WriteString(" |")
		for _, c := range row {
			if 0x20 <= c && c < 0x7F {
				w.WriteByte(c)
			} else {
				w.WriteByte('.')
			}
		}
		w.WriteByte('|')
	}
}

// dumpString quotes s if every rune is graphic, and falls back to a hex dump
// otherwise.
func dumpString(w *bufio.Writer, indent int, s string) {
	graphic := true
	for _, r := range s {
		if !unicode.IsGraphic(r) {
			graphic = false
			break
		}
	}
	if graphic {
		fmt.Fprintf(w, "(len:%d) ", len(s))
		w.WriteString(strconv.Quote(s))
		return
	}
	dumpBytes(w, indent, []byte(s))
}

func dumpChunk(w *bufio.Writer, indent int, ch chunk) {
	dumpNewline(w, indent)
	w.WriteString("Chunk: ")
	dumpSig(w, ch.Signature())
	if ch.Compressed() {
		w.WriteString(" (compressed) {")
	} else {
		w.WriteString(" (uncompressed) {")
	}

	switch ch := ch.(type) {
	case *chunkMeta:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Count: %d", len(ch.Values))
		for _, pair := range ch.Values {
			dumpNewline(w, indent+1)
			w.WriteString("Key: ")
			dumpString(w, indent+2, pair[0])
			dumpNewline(w, indent+1)
			w.WriteString("Value: ")
			dumpString(w, indent+2, pair[1])
		}
	case *chunkSharedStrings:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Version: %d", ch.Version)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Count: %d", len(ch.Values))
		for _, entry := range ch.Values {
			dumpNewline(w, indent+1)
			w.WriteString("Hash:")
			dumpBytes(w, indent+2, entry.Hash[:])
			dumpNewline(w, indent+1)
			w.WriteString("Value: ")
			dumpString(w, indent+2, string(entry.Value))
		}
	case *chunkInstance:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "ClassID: %d", ch.ClassID)
		dumpNewline(w, indent+1)
		w.WriteString("ClassName: ")
		dumpString(w, indent+2, ch.ClassName)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "IsService: %t", ch.IsService)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Count: %d", len(ch.InstanceIDs))
		for i, id := range ch.InstanceIDs {
			dumpNewline(w, indent+1)
			fmt.Fprintf(w, "Instance %d: %d", i, id)
			if ch.IsService {
				fmt.Fprintf(w, " (GetService: %d)", ch.GetService[i])
			}
		}
	case *chunkProperty:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "ClassID: %d", ch.ClassID)
		dumpNewline(w, indent+1)
		w.WriteString("PropertyName: ")
		dumpString(w, indent+2, ch.PropertyName)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "DataType: %s (0x%02X)", ch.DataType, byte(ch.DataType))
		dumpNewline(w, indent+1)
		w.WriteString("Values:")
		dumpBytes(w, indent+2, ch.Raw)
	case *chunkParent:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Version: %d", ch.Version)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Count: %d", len(ch.Children))
		for i, child := range ch.Children {
			dumpNewline(w, indent+1)
			fmt.Fprintf(w, "Child %d: %d", i, child)
			if i < len(ch.Parents) {
				fmt.Fprintf(w, " (Parent: %d)", ch.Parents[i])
			}
		}
	case *chunkEnd:
		dumpNewline(w, indent+1)
		w.WriteString("Content: ")
		dumpString(w, indent+2, string(ch.Content))
	case *chunkUnknown:
		dumpNewline(w, indent+1)
		w.WriteString("Bytes:")
		dumpBytes(w, indent+2, ch.Bytes)
	case *chunkErrored:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Error: %s", ch.Cause)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Offset: %d", ch.Offset)
		dumpNewline(w, indent+1)
		w.WriteString("Bytes:")
		dumpBytes(w, indent+2, ch.Bytes)
	}

	dumpNewline(w, indent)
	w.WriteString("}")
}

// dumpFormatModel writes a readable representation of model to w.
func dumpFormatModel(w io.Writer, model *formatModel) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Version: %d", model.Version)
	dumpNewline(bw, 0)
	fmt.Fprintf(bw, "Classes: %d", model.ClassCount)
	dumpNewline(bw, 0)
	fmt.Fprintf(bw, "Instances: %d", model.InstanceCount)
	dumpNewline(bw, 0)
	fmt.Fprintf(bw, "Chunks: %d {", len(model.Chunks))
	for _, ch := range model.Chunks {
		dumpChunk(bw, 1, ch)
	}
	dumpNewline(bw, 0)
	bw.WriteString("}")
	dumpNewline(bw, 0)

	return bw.Flush()
}
