package hooks

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/errors"
	"github.com/grovetools/vibediary/pkg/models"
	"github.com/grovetools/vibediary/state"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	name    string
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Name() string { return f.name }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time         { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	cfg   *config.Config
	clock *clock
	diag  *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.SessionsDir = filepath.Join(dir, "sessions")
	cfg.PostsDir = filepath.Join(dir, "posts")
	return &fixture{
		cfg:   cfg,
		clock: &clock{t: time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local)},
		diag:  &bytes.Buffer{},
	}
}

func (f *fixture) options(extra ...Option) []Option {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return append([]Option{
		WithClock(f.clock.now),
		WithLogger(logrus.NewEntry(logger)),
		WithDiagnostics(f.diag),
	}, extra...)
}

func (f *fixture) start(t *testing.T, payload string) Outcome {
	t.Helper()
	return NewInitializer(f.cfg, f.options()...).Run(context.Background(), []byte(payload))
}

func (f *fixture) record(t *testing.T, payload string) Outcome {
	t.Helper()
	rec, err := NewRecorder(f.cfg, f.options()...)
	require.NoError(t, err)
	return rec.Run(context.Background(), []byte(payload))
}

func (f *fixture) synthesize(t *testing.T, payload string, opts ...Option) Outcome {
	t.Helper()
	syn, err := NewSynthesizer(f.cfg, f.options(opts...)...)
	require.NoError(t, err)
	return syn.Run(context.Background(), []byte(payload))
}

func (f *fixture) sessionFile(id string) string {
	return filepath.Join(f.cfg.SessionsDir, id+".jsonl")
}

func TestFiveMinuteSessionProducesPost(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{name: "anthropic", text: "Today I wrote a.py and fought pytest."}
	ledger := state.NewLedger(filepath.Join(t.TempDir(), "state.yml"))

	out := f.start(t, `{"session_id":"s1","cwd":"/home/dev/demo","transcript_path":"/tmp/t.jsonl"}`)
	require.Equal(t, StatusCompleted, out.Status, out.String())

	f.clock.advance(2 * time.Minute)
	out = f.record(t, `{"session_id":"s1","tool_name":"Write","tool_input":{"file_path":"a.py","content":"print(1)"},"tool_response":"ok"}`)
	require.Equal(t, StatusCompleted, out.Status, out.String())

	f.clock.advance(3 * time.Minute)
	out = f.record(t, `{"session_id":"s1","tool_name":"Bash","tool_input":{"command":"pytest"},"tool_response":"Error: 1 test failed"}`)
	require.Equal(t, StatusCompleted, out.Status, out.String())

	f.clock.advance(time.Minute)
	out = f.synthesize(t, `{"session_id":"s1","reason":"exit"}`, WithGenerators(gen), WithLedger(ledger))
	require.Equal(t, StatusCompleted, out.Status, out.String())

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "- Project: demo")
	assert.Contains(t, prompt, "- Date: October 17, 2026")
	assert.Contains(t, prompt, "- Duration: 5 minutes")
	assert.Contains(t, prompt, "- Created file: a.py\n- Ran command: pytest\n  (encountered an error)")

	assert.Equal(t, filepath.Join(f.cfg.PostsDir, "2026-10-17-demo.md"), out.Artifact)
	data, err := os.ReadFile(out.Artifact)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tags: [vibe-coding, claude-code, cli]\n")
	assert.True(t, strings.HasSuffix(string(data), "---\n\nToday I wrote a.py and fought pytest."))

	assert.Equal(t, "[Vibe Diary] Generated: "+out.Artifact+"\n", f.diag.String())

	entries, err := ledger.Get("s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "anthropic", entries[0].Provider)
	assert.Equal(t, out.Artifact, entries[0].Path)
}

func TestSingleRecordSessionMakesNoGenerationCall(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{name: "anthropic", text: "unused"}

	require.Equal(t, StatusCompleted, f.start(t, `{"session_id":"s2","cwd":"/x/api"}`).Status)

	out := f.synthesize(t, `{"session_id":"s2"}`, WithGenerators(gen))
	assert.Equal(t, StatusSkipped, out.Status)
	assert.Equal(t, ReasonTooFewRecords, out.Reason)
	assert.Empty(t, gen.prompts)
	assert.Empty(t, f.diag.String())
	assert.NoDirExists(t, f.cfg.PostsDir)
}

func TestAllProvidersFailing(t *testing.T) {
	f := newFixture(t)
	f.cfg.Providers.Anthropic.APIKey = ""
	f.cfg.Providers.Gemini.APIKey = ""

	f.start(t, `{"session_id":"s3","cwd":"/x/api"}`)
	f.record(t, `{"session_id":"s3","tool_name":"Edit","tool_input":{"file_path":"main.go"}}`)
	f.record(t, `{"session_id":"s3","tool_name":"Grep","tool_input":{"pattern":"TODO"}}`)

	out := f.synthesize(t, `{"session_id":"s3"}`)
	assert.Equal(t, StatusSkipped, out.Status)
	assert.Equal(t, ReasonGenerationFailed, out.Reason)
	assert.True(t, errors.Is(out.Err, errors.ErrCodeGenerationFailed))

	assert.Equal(t, "[Vibe Diary] No API key configured (ANTHROPIC_API_KEY or GEMINI_API_KEY)\n", f.diag.String())
	assert.NoDirExists(t, f.cfg.PostsDir)
}

func TestProviderCallFailureDiagnostic(t *testing.T) {
	f := newFixture(t)
	a := &fakeGenerator{name: "anthropic", err: errors.ProviderFailed("anthropic", io.ErrUnexpectedEOF)}
	g := &fakeGenerator{name: "gemini", text: ""}

	f.start(t, `{"session_id":"s4","cwd":"/x/api"}`)
	f.record(t, `{"session_id":"s4","tool_name":"Write","tool_input":{"file_path":"a"}}`)
	f.record(t, `{"session_id":"s4","tool_name":"Write","tool_input":{"file_path":"b"}}`)

	out := f.synthesize(t, `{"session_id":"s4"}`, WithGenerators(a, g))
	assert.Equal(t, ReasonGenerationFailed, out.Reason)
	assert.Len(t, a.prompts, 1)
	assert.Len(t, g.prompts, 1)
	assert.Equal(t, 1, strings.Count(f.diag.String(), "\n"), "exactly one diagnostic line")
	assert.Contains(t, f.diag.String(), "[Vibe Diary] Diary generation failed (tried anthropic, gemini)")
}

func TestFallbackProviderIsRecorded(t *testing.T) {
	f := newFixture(t)
	a := &fakeGenerator{name: "anthropic", err: errors.ProviderUnavailable("anthropic", "no API key configured")}
	g := &fakeGenerator{name: "gemini", text: "from gemini"}
	ledger := state.NewLedger(filepath.Join(t.TempDir(), "state.yml"))

	f.start(t, `{"session_id":"s5","cwd":"/x/api"}`)
	f.record(t, `{"session_id":"s5","tool_name":"WebSearch","tool_input":{"query":"go"}}`)
	f.record(t, `{"session_id":"s5","tool_name":"Write","tool_input":{"file_path":"b"}}`)

	out := f.synthesize(t, `{"session_id":"s5"}`, WithGenerators(a, g), WithLedger(ledger))
	require.Equal(t, StatusCompleted, out.Status, out.String())

	data, err := os.ReadFile(out.Artifact)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tags: [vibe-coding, claude-code, research]\n")

	entries, err := ledger.Get("s5")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gemini", entries[0].Provider)
}

func TestSecondPostGetsSuffix(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{name: "anthropic", text: "entry"}

	f.start(t, `{"session_id":"s6","cwd":"/x/api"}`)
	f.record(t, `{"session_id":"s6","tool_name":"Write","tool_input":{"file_path":"a"}}`)
	f.record(t, `{"session_id":"s6","tool_name":"Write","tool_input":{"file_path":"b"}}`)

	first := f.synthesize(t, `{"session_id":"s6"}`, WithGenerators(gen))
	second := f.synthesize(t, `{"session_id":"s6"}`, WithGenerators(gen))
	assert.Equal(t, filepath.Join(f.cfg.PostsDir, "2026-10-17-api.md"), first.Artifact)
	assert.Equal(t, filepath.Join(f.cfg.PostsDir, "2026-10-17-api-1.md"), second.Artifact)
}

func TestNoSessionFile(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{name: "anthropic", text: "unused"}

	out := f.synthesize(t, `{"session_id":"never-started"}`, WithGenerators(gen))
	assert.Equal(t, Skipped(ReasonNoSessionFile), out)
	assert.Empty(t, gen.prompts)
}

func TestMalformedPayloads(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{name: "anthropic"}

	for _, payload := range []string{"not json", "", "[1,2]", "null", `"text"`} {
		assert.Equal(t, ReasonMalformedPayload, f.start(t, payload).Reason, payload)
		assert.Equal(t, ReasonMalformedPayload, f.record(t, payload).Reason, payload)
		assert.Equal(t, ReasonMalformedPayload, f.synthesize(t, payload, WithGenerators(gen)).Reason, payload)
	}
	assert.NoDirExists(t, f.cfg.SessionsDir)
}

func TestUnloggedToolWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.start(t, `{"session_id":"s7","cwd":"/x/api"}`)
	before, err := os.ReadFile(f.sessionFile("s7"))
	require.NoError(t, err)

	for _, tool := range []string{"Read", "TodoWrite", "write", ""} {
		out := f.record(t, `{"session_id":"s7","tool_name":"`+tool+`","tool_input":{"file_path":"x"}}`)
		assert.Equal(t, Skipped(ReasonToolNotLogged), out, tool)
	}

	after, err := os.ReadFile(f.sessionFile("s7"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExcludedPathIsNotRecorded(t *testing.T) {
	f := newFixture(t)
	f.cfg.ExcludePaths = []string{"**/.env"}

	out := f.record(t, `{"session_id":"s8","tool_name":"Edit","tool_input":{"file_path":"/home/dev/api/.env"}}`)
	assert.Equal(t, Skipped(ReasonPathExcluded), out)
	assert.NoFileExists(t, f.sessionFile("s8"))

	out = f.record(t, `{"session_id":"s8","tool_name":"Edit","tool_input":{"file_path":"/home/dev/api/main.go"}}`)
	assert.Equal(t, StatusCompleted, out.Status)
}

func TestRecorderWritesRecord(t *testing.T) {
	f := newFixture(t)
	out := f.record(t, `{"tool_name":"Bash","tool_input":{"command":"go test ./...","description":"Run tests"},"tool_response":{"stdout":"ok"}}`)
	require.Equal(t, StatusCompleted, out.Status)
	assert.Equal(t, f.sessionFile("unknown"), out.Artifact)

	data, err := os.ReadFile(out.Artifact)
	require.NoError(t, err)
	assert.Equal(t,
		`{"tool": "Bash", "action": "ran command", "command": "go test ./...", "description": "Run tests", "type": "activity", "timestamp": "2026-10-17T09:00:00.000000"}`+"\n",
		string(data))
}

func TestInitializerRecord(t *testing.T) {
	f := newFixture(t)
	out := f.start(t, `{"session_id":"s9","cwd":"/home/dev/api/","transcript_path":"/t.jsonl"}`)
	require.Equal(t, StatusCompleted, out.Status)

	data, err := os.ReadFile(out.Artifact)
	require.NoError(t, err)
	rec, ok := parseOnly(t, data)
	require.True(t, ok)
	assert.Equal(t, models.RecordSessionStart, rec.Type)
	assert.Equal(t, "api", rec.SessionStart.Project)
	assert.Equal(t, "/home/dev/api/", rec.SessionStart.Cwd)
	assert.Equal(t, "/t.jsonl", rec.SessionStart.TranscriptPath)
	assert.Equal(t, "2026-10-17T09:00:00.000000", rec.Timestamp)
}

func TestProjectFromCwd(t *testing.T) {
	assert.Equal(t, "unknown", ProjectFromCwd(""))
	assert.Equal(t, "unknown", ProjectFromCwd("/"))
	assert.Equal(t, "api", ProjectFromCwd("/home/dev/api"))
	assert.Equal(t, "api", ProjectFromCwd("/home/dev/api/"))
	assert.Equal(t, "api", ProjectFromCwd("api"))
}

func TestPrepareBuildsPromptWithoutCalling(t *testing.T) {
	f := newFixture(t)
	gen := &fakeGenerator{name: "anthropic", text: "unused"}
	f.start(t, `{"session_id":"s10","cwd":"/x/api"}`)
	f.record(t, `{"session_id":"s10","tool_name":"Glob","tool_input":{"pattern":"**/*.go"}}`)
	f.record(t, `{"session_id":"s10","tool_name":"Task","tool_input":{"description":"explore"}}`)

	syn, err := NewSynthesizer(f.cfg, f.options(WithGenerators(gen))...)
	require.NoError(t, err)
	draft, out := syn.Prepare("s10")
	require.NotNil(t, draft, out.String())
	assert.Contains(t, draft.Prompt, "- Found files matching: **/*.go\n- Launched agent: explore")
	assert.Empty(t, gen.prompts)
	assert.NoDirExists(t, f.cfg.PostsDir)
}

func TestDefaultGeneratorsFollowConfigOrder(t *testing.T) {
	f := newFixture(t)
	f.cfg.Providers.Order = []string{"openai", "anthropic"}
	syn, err := NewSynthesizer(f.cfg, f.options()...)
	require.NoError(t, err)

	var names []string
	for _, g := range syn.chain.Generators() {
		names = append(names, g.Name())
	}
	assert.Equal(t, []string{"openai", "anthropic"}, names)
}

func parseOnly(t *testing.T, data []byte) (models.Record, bool) {
	t.Helper()
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 1)
	var rec models.Record
	if err := rec.UnmarshalJSON([]byte(lines[0])); err != nil {
		return rec, false
	}
	return rec, true
}
