package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/am-sokolov/go-ktx2/ktx"
	"github.com/am-sokolov/go-ktx2/ktx/native"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, func(opts native.Options) ktx.Loader {
		return native.NewLoader(opts)
	}))
}

func run(args []string, stdout, stderr io.Writer, newLoader func(native.Options) ktx.Loader) int {
	fs := flag.NewFlagSet("ktx2bench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		inPath      string
		libPath     string
		from        string
		format      string
		iters       int
		checksumOpt string
		cpuprofile  string
		memprofile  string
		memprofRate int
	)
	fs.StringVar(&inPath, "in", "", "input .ktx2 file")
	fs.StringVar(&libPath, "lib", "", "path to the libktx shared library")
	fs.StringVar(&from, "from", "memory", "load path: memory|file")
	fs.StringVar(&format, "format", "none", "transcode target when the texture needs it (none = load only)")
	fs.IntVar(&iters, "iters", 100, "iterations")
	fs.StringVar(&checksumOpt, "checksum", "fnv", "checksum: fnv|none (for benchmarking)")
	fs.StringVar(&cpuprofile, "cpuprofile", "", "optional CPU profile output path")
	fs.StringVar(&memprofile, "memprofile", "", "optional memory profile output path")
	fs.IntVar(&memprofRate, "memprofilerate", 0, "optional runtime.MemProfileRate override (0 = default)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if inPath == "" {
		fmt.Fprintln(stderr, "usage: ktx2bench -in <file.ktx2> [-from memory|file] [-format bc7-rgba] [-iters N] [-checksum fnv|none]")
		return 2
	}
	if iters <= 0 {
		fmt.Fprintln(stderr, "iters must be > 0")
		return 2
	}
	from = strings.ToLower(strings.TrimSpace(from))
	if from != "memory" && from != "file" {
		fmt.Fprintln(stderr, "invalid -from (want memory|file)")
		return 2
	}
	target, err := ktx.ParseTranscodeFormat(format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	doChecksum := strings.ToLower(strings.TrimSpace(checksumOpt)) != "none"

	data, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	s := ktx.NewSession(newLoader(native.Options{Path: libPath}))
	if err := s.Init(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer s.Terminate()

	if memprofRate > 0 {
		runtime.MemProfileRate = memprofRate
	}
	if cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			fmt.Fprintln(stderr, err)
			return 1
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	total := fnv.New64a()
	var sumBuf [8]byte
	start := time.Now()
	for i := 0; i < iters; i++ {
		sum, err := iteration(s, from, inPath, data, target, doChecksum)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		binary.LittleEndian.PutUint64(sumBuf[:], sum)
		_, _ = total.Write(sumBuf[:])
	}
	elapsed := time.Since(start)

	if memprofile != "" {
		if err := writeHeapProfile(memprofile); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	sec := elapsed.Seconds()
	nsPerOp := float64(elapsed.Nanoseconds()) / float64(iters)
	mbps := 0.0
	if sec > 0 {
		mbps = float64(len(data)) * float64(iters) / sec / 1e6
	}
	checksumStr := "none"
	if doChecksum {
		checksumStr = fmt.Sprintf("%016x", total.Sum64())
	}
	fmt.Fprintf(stdout, "RESULT from=%s format=%s bytes=%d iters=%d seconds=%.6f ns/op=%.0f MB/s=%.3f checksum=%s\n",
		from, target, len(data), iters, sec, nsPerOp, mbps, checksumStr)
	return 0
}

// iteration loads, optionally transcodes, and destroys one texture. It returns
// the checksum of the texture data when doChecksum is set.
func iteration(s *ktx.Session, from, path string, data []byte, target ktx.TranscodeFormat, doChecksum bool) (uint64, error) {
	var (
		tex *ktx.Texture
		err error
	)
	if from == "file" {
		tex, err = s.LoadFromFile(path)
	} else {
		tex, err = s.LoadFromMemory(data)
	}
	if err != nil {
		return 0, err
	}
	defer s.Destroy(tex)

	if target != ktx.TranscodeNoSelection {
		needs, err := s.NeedsTranscoding(tex)
		if err != nil {
			return 0, err
		}
		if needs {
			if err := s.Transcode(tex, target, ktx.TranscodeNoFlags); err != nil {
				return 0, err
			}
		}
	}
	if !doChecksum {
		return 0, nil
	}
	texData, err := s.Data(tex)
	if err != nil {
		return 0, err
	}
	return checksum64(texData), nil
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func checksum64(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}
