package esql_test

import (
	"errors"
	"testing"

	"github.com/nickyhof/ifxsql/esql"
	"github.com/nickyhof/ifxsql/esql/esqltest"
)

func TestContextDo(t *testing.T) {
	t.Setenv(esql.ServerEnv, "ol_test")
	client := esqltest.New()
	ctx := esql.NewContext(client)

	for _, id := range []string{"s1", "s2"} {
		if d := client.OpenSession("stores", id, nil); !d.OK() {
			t.Fatalf("Failed to open session %s: %s", id, d.Summary())
		}
	}

	err := ctx.Do(func() (string, error) { return "s1", nil }, func(c esql.Client) error {
		if client.Current() != "s1" {
			t.Errorf("Expected s1 current inside Do, got %q", client.Current())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	errStop := errors.New("stop")
	calls := len(client.Calls())
	ran := false
	err = ctx.Do(func() (string, error) { return "", errStop }, func(esql.Client) error {
		ran = true
		return nil
	})
	if !errors.Is(err, errStop) {
		t.Errorf("Expected the enter error, got %v", err)
	}
	if ran {
		t.Error("Expected fn not to run when enter fails")
	}
	if len(client.Calls()) != calls {
		t.Error("Expected no engine calls when enter fails")
	}

	err = ctx.Do(func() (string, error) { return "", nil }, func(esql.Client) error {
		ran = true
		return nil
	})
	if err != nil || !ran {
		t.Fatalf("Expected fn to run without a session, err=%v", err)
	}
	if client.Count("SetCurrent") != 1 {
		t.Errorf("Expected one session switch, got %d", client.Count("SetCurrent"))
	}
}
