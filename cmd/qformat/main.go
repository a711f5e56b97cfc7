// Command qformat exports a question bank file to a printable document.
//
//	qformat -in bank.json -category week1 -format pdf -out ./out
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/mind-engage/mindengage-qformat/internal/bank"
	"github.com/mind-engage/mindengage-qformat/internal/export"
	"github.com/mind-engage/mindengage-qformat/internal/i18n"
	"github.com/mind-engage/mindengage-qformat/internal/render"
	"github.com/mind-engage/mindengage-qformat/internal/sink"
)

func main() {
	var (
		in          = flag.String("in", "", "question bank JSON file")
		category    = flag.String("category", "", "category id (empty exports every category)")
		format      = flag.String("format", "pdf", fmt.Sprintf("output format %v", sink.Names()))
		out         = flag.String("out", ".", "output directory")
		title       = flag.String("title", "", "document title")
		strict      = flag.Bool("strict", true, "fail when any question type is unsupported")
		unsupported = flag.String("unsupported", "silent", "unsupported questions in the body: silent|comment")
		locale      = flag.String("locale", "", "JSON string bundle overlaid on English")
		fontRegular = flag.String("font-regular", "", "TTF for the PDF regular face")
		fontBold    = flag.String("font-bold", "", "TTF for the PDF bold face")
	)
	flag.Parse()
	defer glog.Flush()

	if err := run(*in, *category, *format, *out, *title, *strict, *unsupported, *locale, *fontRegular, *fontBold); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(in, category, format, out, title string, strict bool, unsupported, locale, fontRegular, fontBold string) error {
	if in == "" {
		return errors.New("-in is required")
	}
	src, err := bank.OpenFile(in)
	if err != nil {
		return err
	}
	loc := i18n.English()
	if locale != "" {
		if loc, err = i18n.Load(locale); err != nil {
			return err
		}
	}
	mode, err := render.ParseUnsupportedMode(unsupported)
	if err != nil {
		return err
	}

	exp := export.New(src, loc,
		export.WithStrict(strict),
		export.WithUnsupportedMode(mode),
		export.WithSinkOptions(sink.Options{FontRegular: fontRegular, FontBold: fontBold}),
	)
	a, err := exp.Export(context.Background(), export.Request{CategoryID: category, Format: format, Title: title})
	var ue *render.UnsupportedError
	if errors.As(err, &ue) {
		msg, derr := export.Diagnostic(loc, ue)
		if derr != nil {
			return ue
		}
		return errors.New(msg)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(out, a.Filename)
	if err := os.WriteFile(dst, a.Body, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s: %d questions", dst, a.Numbered)
	if len(a.Skipped) > 0 {
		fmt.Printf(", %d not supported", len(a.Skipped))
	}
	fmt.Println()
	return nil
}
