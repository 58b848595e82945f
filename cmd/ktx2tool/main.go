package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/am-sokolov/go-ktx2/ktx"
	"github.com/am-sokolov/go-ktx2/ktx/native"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, nativeLoader))
}

func nativeLoader(opts native.Options) ktx.Loader { return native.NewLoader(opts) }

func run(args []string, stdout, stderr io.Writer, newLoader func(native.Options) ktx.Loader) int {
	fs := flag.NewFlagSet("ktx2tool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		inPath     string
		outPath    string
		libPath    string
		configPath string
		format     string
		tflags     string
		fromMemory bool
		info       bool
		transcode  bool
		extract    bool
		level      uint32Flag
		layer      uint32Flag
		face       uint32Flag
		verbose    bool
	)
	fs.StringVar(&inPath, "in", "", "input .ktx2 file")
	fs.StringVar(&outPath, "out", "", "output file for -extract (.astc writes an ASTC container)")
	fs.StringVar(&libPath, "lib", "", "path to the libktx shared library")
	fs.StringVar(&configPath, "config", "", "optional TOML config file")
	fs.StringVar(&format, "format", "rgba32", "transcode target: "+formatNames())
	fs.StringVar(&tflags, "tflags", "", "transcode flags: pvrtc-next-pow2,alpha-to-opaque,high-quality")
	fs.BoolVar(&fromMemory, "mem", false, "read the file into memory and load from the buffer")
	fs.BoolVar(&info, "info", false, "print texture information")
	fs.BoolVar(&transcode, "transcode", false, "transcode Basis Universal data to -format")
	fs.BoolVar(&extract, "extract", false, "write one image (-level, -layer, -face) to -out")
	fs.Var(&level, "level", "mip level for -extract")
	fs.Var(&layer, "layer", "array layer for -extract")
	fs.Var(&face, "face", "cubemap face or depth slice for -extract")
	fs.BoolVar(&verbose, "v", false, "log native library activity to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if inPath == "" {
		fmt.Fprintln(stderr, "usage: ktx2tool -in <file.ktx2> [-info] [-transcode -format bc7-rgba] [-extract -level N -out <file>]")
		return 2
	}
	if !info && !transcode && !extract {
		info = true
	}
	if extract && outPath == "" {
		fmt.Fprintln(stderr, "missing -out")
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["lib"] || cfg.Library == "" {
		cfg.Library = libPath
	}
	if set["format"] || cfg.Format == "" {
		cfg.Format = format
	}
	if set["tflags"] || cfg.Flags == "" {
		cfg.Flags = tflags
	}

	formatVal, err := ktx.ParseTranscodeFormat(cfg.Format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	flagsVal, err := ktx.ParseTranscodeFlags(cfg.Flags)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if verbose {
		ktx.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer ktx.SetLogger(nil)
	}

	s := ktx.NewSession(newLoader(native.Options{Path: cfg.Library, SearchDirs: cfg.SearchDirs}))
	if err := s.Init(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer s.Terminate()

	var tex *ktx.Texture
	if fromMemory {
		data, rerr := os.ReadFile(inPath)
		if rerr != nil {
			fmt.Fprintln(stderr, rerr)
			return 1
		}
		tex, err = s.LoadFromMemory(data)
	} else {
		tex, err = s.LoadFromFile(inPath)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer s.Destroy(tex)

	if transcode || extract {
		needs, err := s.NeedsTranscoding(tex)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if needs {
			if err := s.Transcode(tex, formatVal, flagsVal); err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
			fmt.Fprintf(stdout, "transcoded to %s\n", formatVal)
		} else if transcode {
			fmt.Fprintln(stdout, "texture does not need transcoding")
		}
	}

	if info {
		if err := printInfo(stdout, s, tex); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	if extract {
		if err := writeImage(s, tex, outPath, uint32(level), uint32(layer), uint32(face)); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	return 0
}

func printInfo(w io.Writer, s *ktx.Session, tex *ktx.Texture) error {
	info, err := s.Info(tex)
	if err != nil {
		return err
	}
	comps, err := s.NumComponents(tex)
	if err != nil {
		return err
	}
	needs, err := s.NeedsTranscoding(tex)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, info.String())
	fmt.Fprintf(w, "components: %d\n", comps)
	fmt.Fprintf(w, "needs transcoding: %t\n", needs)
	fmt.Fprintf(w, "data size: %d\n", info.DataSize)
	for mip := uint32(0); mip < info.NumLevels; mip++ {
		size, err := s.ImageSize(tex, mip)
		if err != nil {
			return err
		}
		off, err := s.ImageOffset(tex, mip, 0, 0)
		if err != nil {
			return err
		}
		lw, lh, ld := info.LevelSize(mip)
		fmt.Fprintf(w, "level %d: %dx%dx%d offset %d size %d\n", mip, lw, lh, ld, off, size)
	}
	return nil
}

func writeImage(s *ktx.Session, tex *ktx.Texture, path string, level, layer, face uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".astc") {
		err = s.WriteASTCImage(f, tex, level, layer, face)
	} else {
		var img []byte
		img, err = s.ImageData(tex, level, layer, face)
		if err == nil {
			_, err = f.Write(img)
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}

// uint32Flag is a flag.Value that rejects numbers outside the uint32 range
// instead of truncating them.
type uint32Flag uint32

func (f *uint32Flag) String() string { return strconv.FormatUint(uint64(*f), 10) }

func (f *uint32Flag) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return err
	}
	*f = uint32Flag(v)
	return nil
}

func formatNames() string {
	names := []string{}
	for _, f := range []ktx.TranscodeFormat{
		ktx.TranscodeETC1RGB, ktx.TranscodeETC2RGBA, ktx.TranscodeBC1RGB, ktx.TranscodeBC3RGBA,
		ktx.TranscodeBC4R, ktx.TranscodeBC5RG, ktx.TranscodeBC7RGBA, ktx.TranscodeASTC4x4RGBA,
		ktx.TranscodeRGBA32, ktx.TranscodeRGB565, ktx.TranscodeETC, ktx.TranscodeBC1Or3,
	} {
		names = append(names, f.String())
	}
	return strings.Join(names, "|")
}
