// Command xzlzma compresses or decompresses files using the raw LZMA1
// or chunked LZMA2 codecs implemented by this module.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"

	"github.com/omnizip/omnizip-sub002/lzma"
	"github.com/omnizip/omnizip-sub002/lzma2"
)

func main() {
	cmdName := filepath.Base(os.Args[0])
	log.SetPrefix(fmt.Sprintf("%s: ", cmdName))
	log.SetFlags(0)

	app := &cli.App{
		Name:  cmdName,
		Usage: "compress or decompress files with the LZMA1/LZMA2 codecs",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "decompress", Aliases: []string{"d"}, Usage: "force decompression"},
			&cli.BoolFlag{Name: "stdout", Aliases: []string{"c"}, Usage: "write to standard output"},
			&cli.BoolFlag{Name: "lzma2", Usage: "use chunked LZMA2 framing instead of raw LZMA1"},
			&cli.BoolFlag{Name: "fast", Usage: "use the greedy parser instead of lazy matching"},
			&cli.BoolFlag{Name: "bt", Usage: "use the binary-tree match finder instead of hash chains"},
			&cli.IntFlag{Name: "dict", Value: 1 << 20, Usage: "dictionary capacity in bytes"},
			&cli.UintFlag{Name: "nice-len", Value: 64, Usage: "match length above which the parser stops searching"},
			&cli.BoolFlag{Name: "dump-config", Usage: "print the resolved codec configuration and exit"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "suppress informational logging"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg := lzma.StreamConfig{
		Properties: lzma.Default(),
		DictCap:    c.Int("dict"),
		Fast:       c.Bool("fast"),
		BinTree:    c.Bool("bt"),
		NiceLen:    uint32(c.Uint("nice-len")),
	}

	if c.Bool("dump-config") {
		pretty.Println(cfg)
		return nil
	}

	var (
		in  io.Reader = os.Stdin
		out io.Writer = os.Stdout
	)
	args := c.Args().Slice()
	decompress := c.Bool("decompress") || guessDecompress(args)

	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	if len(args) > 0 && !c.Bool("stdout") {
		name := outputName(args[0], decompress)
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if !c.Bool("quiet") {
		log.Printf("decompress=%t lzma2=%t dict=%d", decompress, c.Bool("lzma2"), cfg.DictCap)
	}

	if c.Bool("lzma2") {
		if decompress {
			return lzma2DecompressStream(out, in, cfg.DictCap)
		}
		return lzma2CompressStream(out, in, cfg)
	}
	if decompress {
		return lzma.DecompressStream(out, in)
	}
	return lzma.CompressStream(out, in, cfg, -1)
}

func lzma2CompressStream(w io.Writer, r io.Reader, cfg lzma.StreamConfig) error {
	wc := lzma2.NewWriter(w, lzma2.WriterConfig{
		Properties: cfg.Properties,
		DictCap:    cfg.DictCap,
		NiceLen:    cfg.NiceLen,
		BinTree:    cfg.BinTree,
	})
	if _, err := io.Copy(wc, r); err != nil {
		return err
	}
	return wc.Close()
}

func lzma2DecompressStream(w io.Writer, r io.Reader, dictCap int) error {
	rc := lzma2.NewReader(r, lzma2.ReaderConfig{DictCap: dictCap})
	_, err := io.Copy(w, rc)
	return err
}

const lzmaExt = ".lzma"

func guessDecompress(args []string) bool {
	if len(args) == 0 {
		return false
	}
	return strings.HasSuffix(args[0], lzmaExt)
}

func outputName(in string, decompress bool) string {
	if decompress {
		return strings.TrimSuffix(in, lzmaExt)
	}
	return in + lzmaExt
}
