// Diagnostic tool for inspecting CLF layer files
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"os"

	"github.com/robert-malhotra/go-clf/clf"
)

func main() {
	verbose := flag.Bool("v", false, "log decoding steps to stderr")
	eager := flag.Bool("eager", false, "decode every layer while opening")
	z := flag.Float64("z", math.NaN(), "print the shapes found at this height")
	maskPath := flag.String("mask", "", "write a PNG mask of the layers at -z")
	size := flag.Int("size", 512, "mask width in pixels")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: clfinfo [-v] [-eager] [-z height] [-mask out.png] [-size 512] file.clf...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	if *verbose {
		clf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := []clf.Option{clf.WithLazyLoad()}
	if *eager {
		opts = []clf.Option{clf.WithEagerLoad()}
	}

	b, err := clf.OpenBuild(flag.Args(), opts...)
	if err != nil {
		fmt.Printf("ERROR: Failed to open: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	for _, f := range b.Files() {
		fmt.Printf("=== Analyzing %s ===\n\n", f.Path())
		describe(f)
	}

	if math.IsNaN(*z) {
		if *maskPath != "" {
			fmt.Println("ERROR: -mask needs -z")
			os.Exit(1)
		}
		return
	}

	ll, err := b.FindEach(*z)
	if err != nil {
		fmt.Printf("ERROR: Failed to find layer at z=%g: %v\n", *z, err)
		os.Exit(1)
	}
	fmt.Printf("=== Height %g ===\n\n", *z)
	for i, l := range ll {
		printLayer(b.Files()[i], l)
	}

	if *maskPath != "" {
		if err := writeMask(*maskPath, b.Box(), ll, *size); err != nil {
			fmt.Printf("ERROR: Failed to write mask: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Mask written to %s\n", *maskPath)
	}
}

func describe(f *clf.File) {
	fmt.Print(f)
	fmt.Printf("Thickness: %g\n", f.Thickness())
	fmt.Println()

	for _, m := range f.Models() {
		fmt.Print(m)
		fmt.Println()
	}

	refs := f.Layers()
	fmt.Printf("Layers found: %d\n", len(refs))
	for _, ref := range refs {
		if off, ok := ref.Offset(); ok {
			fmt.Printf("  z=%g offset=%d\n", ref.Z(), off)
		} else {
			fmt.Printf("  z=%g [LOADED]\n", ref.Z())
		}
	}
	if uint64(len(refs)) != f.LayerCount() {
		fmt.Printf("  [MISMATCH - header declares %d layers]\n", f.LayerCount())
	}
	fmt.Println()
}

func printLayer(f *clf.File, l *clf.Layer) {
	fmt.Printf("%s: layer z=%g\n", f.Name(), l.Z)
	if l.Empty() {
		fmt.Println("  [EMPTY - no layer within reach]")
		return
	}
	for i, s := range l.Shapes {
		fmt.Printf("  Shape %d: %s model=%d paths=%d points=%d\n",
			i, s.Kind, s.Model.ID, len(s.Paths), s.Points())
	}
	fmt.Printf("  Bounds:\n%s\n", l.Bounds())
}

// writeMask renders the layers in build coordinates. Each file gets its own
// gray level, spread over the full range so that it is visible.
func writeMask(path string, box clf.Box, ll clf.LayerList, width int) error {
	p, err := box.ToImage(0, width)
	if err != nil {
		return err
	}
	img := ll.Transform(p.Transform).Mask(p.Size)
	spread(img, len(ll))

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func spread(img *image.Gray, labels int) {
	if labels == 0 {
		return
	}
	scale := 255 / labels
	for i, v := range img.Pix {
		img.Pix[i] = uint8(int(v) * scale)
	}
}
