// Command preview summarizes a saved booking-API payload offline.
//
//	preview --category COURT_AVAILABILITY availability.json
//	cat matches.json | preview --category PARTIAL_MATCHES --tz Europe/Madrid
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"club-notifier/summary"
	"club-notifier/template"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"
)

type Args struct {
	File     string           `arg:"positional" help:"JSON payload file, or - for stdin"`
	Category summary.Category `arg:"-c,--category,required" help:"COURT_AVAILABILITY, PARTIAL_MATCHES or COMPETITIONS"`
	Variant  string           `arg:"--variant" help:"match variant, e.g. competitive-open-2"`
	Target   string           `arg:"--target" default:"whatsapp" help:"whatsapp or image"`
	Offset   int              `arg:"--offset" default:"60" help:"minutes added to raw slot times"`
	TZ       string           `arg:"--tz" help:"IANA time zone for match and event times"`
	EventID  string           `arg:"--event-id" help:"only summarize this tournament or lesson"`
	Template string           `arg:"-t,--template" help:"message template with {{tokens}}"`
	Club     string           `arg:"--club" help:"value for {{club_name}}"`
	Sport    string           `arg:"--sport" help:"value for {{sport}}"`
	Date     string           `arg:"--date" help:"YYYY-MM-DD for {{date_display_short}}"`
}

func (Args) Description() string {
	return "Summarize court availability, open matches or competitions from a JSON file.\n"
}

func main() {
	var args Args
	arg.MustParse(&args)

	if err := run(args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(args Args, stdin io.Reader, stdout, stderr io.Writer) error {
	data, err := readPayload(args.File, stdin)
	if err != nil {
		return err
	}

	res := summary.Build(summary.Request{
		Category:      args.Category,
		Data:          data,
		Variant:       args.Variant,
		Target:        summary.Target(args.Target),
		Timezone:      args.TZ,
		OffsetMinutes: args.Offset,
		EventID:       args.EventID,
	})

	out := res.Summary
	if args.Template != "" {
		tctx := template.Context{
			Summary:  res.Summary,
			ClubName: args.Club,
			Sport:    args.Sport,
			Count:    res.Count,
		}
		if args.Date != "" {
			d, err := time.Parse("2006-01-02", args.Date)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}
			tctx.Date = d
		}
		out = template.Compile(args.Template, tctx.Tokens())
	}

	fmt.Fprintln(stdout, out)
	fmt.Fprintf(stderr, "📋 %s: %s items from %s of JSON\n",
		args.Category, humanize.Comma(int64(res.Count)), humanize.Bytes(uint64(len(data))))
	return nil
}

func readPayload(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}
