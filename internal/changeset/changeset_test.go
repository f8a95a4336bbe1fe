package changeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"svc/handler.go", "svc/handler.go"},
		{"./svc/handler.go", "svc/handler.go"},
		{"a/svc/handler.go", "svc/handler.go"},
		{"b/svc/handler.go", "svc/handler.go"},
		{"  svc/handler.go ", "svc/handler.go"},
		{"/dev/null", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.in), "input %q", tt.in)
	}
}

func TestFromFilesDedupesAndSorts(t *testing.T) {
	cs := FromFiles("my change", []string{
		"z/late.go",
		"./a/first.go",
		"a/first.go",
		"",
	})

	assert.Equal(t, "my change", cs.Title)
	assert.Equal(t, []string{"a/first.go", "z/late.go"}, cs.Files)
	assert.False(t, cs.IsEmpty())
}

func TestFromFilesEmpty(t *testing.T) {
	cs := FromFiles("", nil)
	assert.True(t, cs.IsEmpty())
	assert.Empty(t, cs.QueryText())
}

const sampleDiff = `diff --git a/payments/api.go b/payments/api.go
--- a/payments/api.go
+++ b/payments/api.go
@@ -1,3 +1,4 @@
 package payments
+// charge retries on 503
 func Charge() {}
diff --git a/orders/client.go b/orders/client.go
--- a/orders/client.go
+++ b/orders/client.go
@@ -5,2 +5,2 @@
-const timeout = 5
+const timeout = 10
`

func TestFromDiff(t *testing.T) {
	cs, err := FromDiff("pr-42", []byte(sampleDiff))
	require.NoError(t, err)

	assert.Equal(t, []string{"orders/client.go", "payments/api.go"}, cs.Files)
	assert.Contains(t, cs.Hunks["payments/api.go"], "charge retries on 503")
	assert.Contains(t, cs.Hunks["orders/client.go"], "timeout = 10")
}

func TestFromDiffRename(t *testing.T) {
	renameDiff := "diff --git a/old/name.go b/new/name.go\n" +
		"--- a/old/name.go\n" +
		"+++ b/new/name.go\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-package old\n" +
		"+package new\n"

	cs, err := FromDiff("", []byte(renameDiff))
	require.NoError(t, err)
	assert.Equal(t, []string{"new/name.go", "old/name.go"}, cs.Files)
}

func TestFromDiffMalformed(t *testing.T) {
	bad := "--- a/f.go\n+++ b/f.go\n@@ not a hunk header @@\n"
	_, err := FromDiff("", []byte(bad))
	assert.Error(t, err)
}

func TestQueryTextPrefersHunks(t *testing.T) {
	cs, err := FromDiff("", []byte(sampleDiff))
	require.NoError(t, err)
	q := cs.QueryText()
	assert.Contains(t, q, "charge retries")
	assert.Contains(t, q, "timeout = 10")

	plain := FromFiles("", []string{"payments/api.go"})
	assert.Equal(t, "payments/api.go", plain.QueryText())
}
