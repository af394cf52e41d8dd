package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"
	"gotest.tools/assert"
)

func TestMapTreatsEmptyAsMissing(t *testing.T) {
	m := Map{"A": "1", "B": ""}

	v, ok := m.Lookup("A")
	assert.Assert(t, ok)
	assert.Equal(t, v, "1")

	_, ok = m.Lookup("B")
	assert.Assert(t, !ok)
	_, ok = m.Lookup("C")
	assert.Assert(t, !ok)
}

func TestFromEnviron(t *testing.T) {
	m := FromEnviron([]string{"A=1", "B=x=y", "broken", "EMPTY="})
	assert.DeepEqual(t, m, Map{"A": "1", "B": "x=y", "EMPTY": ""})
}

func TestChainOrder(t *testing.T) {
	c := Chain{Map{"A": ""}, nil, Map{"A": "second", "B": "b"}, Map{"A": "third"}}

	v, ok := c.Lookup("A")
	assert.Assert(t, ok)
	assert.Equal(t, v, "second")

	_, ok = c.Lookup("Z")
	assert.Assert(t, !ok)
}

func TestReadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	assert.NilError(t, os.WriteFile(path, []byte("# creds\nOPENAI_API_KEY=sk-test\nDATABASE_URL=\"postgres://db/autonate\"\n"), 0o600))

	m, err := ReadDotenv(path)
	assert.NilError(t, err)
	assert.Equal(t, m["OPENAI_API_KEY"], "sk-test")
	assert.Equal(t, m["DATABASE_URL"], "postgres://db/autonate")

	m, err = ReadDotenv(filepath.Join(dir, "missing.env"))
	assert.NilError(t, err)
	assert.Equal(t, len(m), 0)
}

func TestKeyring(t *testing.T) {
	keyring.MockInit()
	assert.NilError(t, keyring.Set("autonate", "DIALPAD_API_KEY", "dp-123"))

	k := Keyring{Service: "autonate"}
	v, ok := k.Lookup("DIALPAD_API_KEY")
	assert.Assert(t, ok)
	assert.Equal(t, v, "dp-123")

	_, ok = k.Lookup("WEATHER_API_KEY")
	assert.Assert(t, !ok)
}

func TestSnapshot(t *testing.T) {
	src := Chain{Map{"A": "1"}, Map{"B": "2"}}
	assert.DeepEqual(t, Snapshot(src, "A", "B", "C"), Map{"A": "1", "B": "2"})
}

func TestEnvironCapturesProcess(t *testing.T) {
	t.Setenv("AUTONATE_SECRETS_TEST", "captured")
	env := Environ()
	os.Unsetenv("AUTONATE_SECRETS_TEST")

	v, ok := env.Lookup("AUTONATE_SECRETS_TEST")
	assert.Assert(t, ok)
	assert.Equal(t, v, "captured")
}
