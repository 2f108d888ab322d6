package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"remap/internal/diag"
	"remap/internal/expr"
	"remap/internal/parser"
)

func testProgram(t *testing.T, src string) *expr.Program {
	t.Helper()
	bag := diag.NewBag(16)
	raw := parser.Parse(0, []byte(src), bag)
	prog, ok := expr.Compile(raw, expr.NewTypeState(), bag)
	if !ok {
		t.Fatalf("compile failed: %v", bag.Items())
	}
	return prog
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("bad output line %q: %v", sc.Text(), err)
		}
		out = append(out, rec)
	}
	return out
}

func TestRunRoutesAbortsToRejects(t *testing.T) {
	prog := testProgram(t, `
if .level == "debug" {
	abort "debug dropped"
}
`)
	input := strings.Join([]string{
		`{"level":"info","n":1}`,
		`{"level":"debug","n":2}`,
		`{"level":"warn","n":3}`,
	}, "\n")

	var out, rejects bytes.Buffer
	r := NewRunner(prog, Options{})
	stats, err := r.Run(context.Background(),
		NewDecoder(FormatJSON, strings.NewReader(input)),
		NewEncoder(FormatJSON, &out),
		NewEncoder(FormatJSON, &rejects))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if stats.Total != 3 || stats.Transformed != 2 || stats.Aborted != 1 || stats.Errored != 0 {
		t.Fatalf("stats %+v", stats)
	}

	survivors := decodeLines(t, &out)
	if len(survivors) != 2 {
		t.Fatalf("got %d survivors", len(survivors))
	}
	if survivors[0]["level"] != "info" || survivors[1]["level"] != "warn" {
		t.Fatalf("survivors out of order: %v", survivors)
	}

	dropped := decodeLines(t, &rejects)
	if len(dropped) != 1 {
		t.Fatalf("got %d rejects", len(dropped))
	}
	if dropped[0]["aborted"] != true || dropped[0]["message"] != "debug dropped" {
		t.Fatalf("reject %v", dropped[0])
	}
	if rec, ok := dropped[0]["record"].(map[string]any); !ok || rec["level"] != "debug" {
		t.Fatalf("reject record %v", dropped[0]["record"])
	}
}

func TestRunMatchesNumbersInJSONRecords(t *testing.T) {
	// JSON decodes every number as a float; integer literals in the
	// program must still match them.
	prog := testProgram(t, `
if .status == 502 {
	abort "server error"
}
`)
	input := `{"status":502}` + "\n" + `{"status":200}`

	var out, rejects bytes.Buffer
	r := NewRunner(prog, Options{})
	stats, err := r.Run(context.Background(),
		NewDecoder(FormatJSON, strings.NewReader(input)),
		NewEncoder(FormatJSON, &out),
		NewEncoder(FormatJSON, &rejects))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Total != 2 || stats.Aborted != 1 || stats.Transformed != 1 {
		t.Fatalf("stats %+v", stats)
	}
	dropped := decodeLines(t, &rejects)
	if len(dropped) != 1 || dropped[0]["message"] != "server error" {
		t.Fatalf("rejects %v", dropped)
	}
}

func TestRunAssignmentsEnrichRecords(t *testing.T) {
	prog := testProgram(t, `
sum = .a + .b
.total = sum
`)
	input := `{"a":4,"b":3}` + "\n" + `{"a":1,"b":1}`

	var out, rejects bytes.Buffer
	r := NewRunner(prog, Options{})
	stats, err := r.Run(context.Background(),
		NewDecoder(FormatJSON, strings.NewReader(input)),
		NewEncoder(FormatJSON, &out),
		NewEncoder(FormatJSON, &rejects))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Total != 2 || stats.Transformed != 2 || stats.Errored != 0 {
		t.Fatalf("stats %+v", stats)
	}
	survivors := decodeLines(t, &out)
	if len(survivors) != 2 {
		t.Fatalf("got %d survivors", len(survivors))
	}
	if survivors[0]["total"] != float64(7) || survivors[1]["total"] != float64(2) {
		t.Fatalf("survivors %v", survivors)
	}
	if survivors[0]["a"] != float64(4) {
		t.Fatalf("input field lost: %v", survivors[0])
	}
}

func TestRunRoutesRuntimeErrors(t *testing.T) {
	prog := testProgram(t, `.a / .b`)
	input := `{"a":4,"b":2}` + "\n" + `{"a":1,"b":0}`

	var out, rejects bytes.Buffer
	r := NewRunner(prog, Options{})
	stats, err := r.Run(context.Background(),
		NewDecoder(FormatJSON, strings.NewReader(input)),
		NewEncoder(FormatJSON, &out),
		NewEncoder(FormatJSON, &rejects))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if stats.Transformed != 1 || stats.Errored != 1 || stats.Aborted != 0 {
		t.Fatalf("stats %+v", stats)
	}
	dropped := decodeLines(t, &rejects)
	if len(dropped) != 1 || dropped[0]["aborted"] != false {
		t.Fatalf("rejects %v", dropped)
	}
	if _, ok := dropped[0]["error"].(string); !ok {
		t.Fatalf("reject must carry the failure text: %v", dropped[0])
	}
}

func TestRunPreservesOrderAcrossBatches(t *testing.T) {
	prog := testProgram(t, `true`)
	var in strings.Builder
	const n = 37
	for i := 0; i < n; i++ {
		fmt.Fprintf(&in, `{"id":%d}`+"\n", i)
	}

	var out bytes.Buffer
	r := NewRunner(prog, Options{BatchSize: 3, Jobs: 4})
	stats, err := r.Run(context.Background(),
		NewDecoder(FormatJSON, strings.NewReader(in.String())),
		NewEncoder(FormatJSON, &out), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Total != n || stats.Transformed != n {
		t.Fatalf("stats %+v", stats)
	}

	recs := decodeLines(t, &out)
	if len(recs) != n {
		t.Fatalf("got %d records", len(recs))
	}
	for i, rec := range recs {
		if rec["id"] != float64(i) {
			t.Fatalf("record %d has id %v", i, rec["id"])
		}
	}
}

func TestRunMsgpackRoundTrip(t *testing.T) {
	prog := testProgram(t, `
if .drop == true {
	abort
}
`)
	var in bytes.Buffer
	enc := NewEncoder(FormatMsgpack, &in)
	for _, raw := range []string{`{"drop":false,"id":1}`, `{"drop":true,"id":2}`} {
		var rec map[string]any
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			t.Fatal(err)
		}
		var obj bytes.Buffer
		if err := json.NewEncoder(&obj).Encode(rec); err != nil {
			t.Fatal(err)
		}
		dec := NewDecoder(FormatJSON, &obj)
		v, err := dec.Next()
		if err != nil {
			t.Fatal(err)
		}
		if err := enc.Write(v); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	r := NewRunner(prog, Options{Format: FormatMsgpack})
	stats, err := r.Run(context.Background(),
		NewDecoder(FormatMsgpack, &in),
		NewEncoder(FormatMsgpack, &out), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Total != 2 || stats.Transformed != 1 || stats.Aborted != 1 {
		t.Fatalf("stats %+v", stats)
	}

	dec := NewDecoder(FormatMsgpack, &out)
	v, err := dec.Next()
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got, ok := v.Object["id"]; !ok || got.Float != 1 {
		t.Fatalf("survivor %s", v)
	}
}

func TestRejectedDecodeStopsRun(t *testing.T) {
	prog := testProgram(t, `true`)
	input := `{"ok":true}` + "\n" + `not json`

	var out bytes.Buffer
	r := NewRunner(prog, Options{})
	_, err := r.Run(context.Background(),
		NewDecoder(FormatJSON, strings.NewReader(input)),
		NewEncoder(FormatJSON, &out), nil)
	if err == nil {
		t.Fatalf("expected a decode error")
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("json"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFormat("msgpack"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatal("expected an error")
	}
}
