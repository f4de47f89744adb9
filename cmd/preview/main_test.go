package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"club-notifier/summary"

	"github.com/alexflint/go-arg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `[{"resource_id":"c1","slots":[
	{"start_time":"09:00:00","duration":90},
	{"start_time":"19:30:00","duration":60}]}]`

func parse(t *testing.T, argv ...string) Args {
	t.Helper()
	var args Args
	p, err := arg.NewParser(arg.Config{}, &args)
	require.NoError(t, err)
	require.NoError(t, p.Parse(argv))
	return args
}

func TestParseArgs(t *testing.T) {
	args := parse(t, "--category", "partial_matches", "--tz", "Europe/Madrid", "in.json")
	assert.Equal(t, summary.PartialMatches, args.Category)
	assert.Equal(t, 60, args.Offset)
	assert.Equal(t, "whatsapp", args.Target)
	assert.Equal(t, "in.json", args.File)

	var bad Args
	p, err := arg.NewParser(arg.Config{}, &bad)
	require.NoError(t, err)
	assert.Error(t, p.Parse([]string{"--category", "BOWLING"}))
}

func TestRun_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "availability.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	var stdout, stderr bytes.Buffer
	args := parse(t, "--category", "COURT_AVAILABILITY", path)
	require.NoError(t, run(args, nil, &stdout, &stderr))

	assert.Equal(t, "Morning: 10am – 11:30am x1\nEvening: 8:30pm – 9:30pm x1\n", stdout.String())
	assert.Contains(t, stderr.String(), "COURT_AVAILABILITY: 2 items")
}

func TestRun_StdinWithTemplate(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := parse(t, "-c", "COURT_AVAILABILITY", "--offset", "0",
		"--template", "{{club_name}} {{date_display_short}}: {{summary}}",
		"--club", "Padel Club", "--date", "2024-05-01", "-")
	require.NoError(t, run(args, strings.NewReader(payload), &stdout, &stderr))

	assert.Equal(t, "Padel Club Wed, May 1: Morning: 9am – 10:30am x1\nEvening: 7:30pm – 8:30pm x1\n", stdout.String())
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	args := parse(t, "-c", "COMPETITIONS", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, run(args, nil, &stdout, &stderr), "read payload")

	args = parse(t, "-c", "COMPETITIONS", "--template", "{{summary}}", "--date", "May 1", "-")
	assert.ErrorContains(t, run(args, strings.NewReader("[]"), &stdout, &stderr), "--date")
}

const matchesPayload = `[
	{"match_id":"one","status":"active","join_requests_info":{"status":"open"},
	 "competition_mode":"competitive","match_type":"competitive",
	 "teams":[{"max_players":2,"players":[{"name":"Ana"}]},{"max_players":2,"players":[]}]},
	{"match_id":"two","status":"active","join_requests_info":{"status":"open"},
	 "competition_mode":"competitive","match_type":"competitive",
	 "teams":[{"max_players":2,"players":[{"name":"Ana"},{"name":"Bea"}]},{"max_players":2,"players":[]}]}]`

func TestRun_VariantNarrowsMatches(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := parse(t, "-c", "PARTIAL_MATCHES", "--variant", "competitive-open-2", "-")
	require.NoError(t, run(args, strings.NewReader(matchesPayload), &stdout, &stderr))

	assert.Contains(t, stdout.String(), "/matches/two")
	assert.NotContains(t, stdout.String(), "/matches/one")
	assert.Contains(t, stderr.String(), "PARTIAL_MATCHES: 1 items")
}
