// Package load implements the loader (C3): turning source text into a
// populated runtime.Module by running the parse, the concurrent
// lifetime-check/convert pair, and the ignored-metadata validation spec.md
// 4.3 describes.
package load

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dyon-lang/dyon/convert"
	"github.com/dyon-lang/dyon/lifetime"
	"github.com/dyon-lang/dyon/runtime"
	"github.com/dyon-lang/dyon/syntax"
	"github.com/dyon-lang/dyon/ty"

	"golang.org/x/sync/errgroup"
)

// Load reads path, parses and loads it into module.
func Load(path string, module *runtime.Module) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return LoadStr(path, string(data), module)
}

// LoadStr parses src (named name for diagnostics) and loads it into module.
func LoadStr(name, src string, module *runtime.Module) error {
	root, err := syntax.Parse(name, src)
	if err != nil {
		return err
	}
	return LoadMeta(name, src, root, module)
}

// LoadMeta runs the lifetime check and AST conversion over an
// already-parsed metadata tree concurrently, applies refined return
// types, and fails with a composite diagnostic if anything was ignored or
// conversion itself errored (spec.md 4.3 step 6).
func LoadMeta(name string, src string, root *syntax.Node, module *runtime.Module) error {
	var refined map[string]ty.Type
	var ignored []syntax.Range
	var lifetimeErr, convertErr error

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		r, err := lifetime.Check(root, module.Intrinsics)
		refined = r
		lifetimeErr = err
		return err
	})
	g.Go(func() error {
		ig, err := convert.Convert(root, &src, module)
		ignored = ig
		convertErr = err
		return err
	})
	g.Wait()

	// step 5: a lifetime-check failure is prefixed with the source name and
	// returned on its own, independent of conversion's outcome. It carries
	// no source pointer: lifetime.Check reports no byte range.
	if lifetimeErr != nil {
		return fmt.Errorf("In `%s:`\n%s", name, lifetimeErr)
	}

	// step 6: ignored metadata and a hard conversion error both surface
	// through the same composite diagnostic.
	if convertErr != nil || len(ignored) > 0 {
		return fmt.Errorf("%s", formatIgnored(name, src, ignored, convertErr))
	}

	for _, fn := range module.Functions {
		if rt, ok := refined[fn.Name]; ok {
			fn.Ret = rt
		}
	}
	return nil
}

type ignoredEntry struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Text   string `json:"text"`
}

// formatIgnored renders the composite "some metadata was not converted"
// diagnostic: a human header, a START IGNORED/END IGNORED bracketed JSON
// dump of every skipped range and its source text, a parse-style pointer
// at the first ignored range, and — when conversion itself failed rather
// than merely skipping syntax — a "Conversion error" marker carrying
// convertErr's message.
func formatIgnored(name, src string, ranges []syntax.Range, convertErr error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "In `%s:`\nsome metadata was not converted\n", name)
	b.WriteString("START IGNORED\n")

	entries := make([]ignoredEntry, 0, len(ranges))
	for _, r := range ranges {
		end := r.End()
		if end > len(src) {
			end = len(src)
		}
		entries = append(entries, ignoredEntry{Offset: r.Offset, Length: r.Length, Text: src[r.Offset:end]})
	}
	j, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		j = []byte(fmt.Sprintf("%v", entries))
	}
	b.Write(j)
	b.WriteString("\nEND IGNORED")

	if len(ranges) > 0 {
		b.WriteByte('\n')
		b.WriteString(syntax.NewErrorHandler(src).WriteMsg(ranges[0], "first ignored range"))
	}

	if convertErr != nil {
		fmt.Fprintf(&b, "\nConversion error: %s", convertErr)
	}
	return b.String()
}
