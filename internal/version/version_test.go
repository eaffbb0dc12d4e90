package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFprint(t *testing.T) {
	saved := []string{Version, GitCommit, BuildOS, BuildArch}
	t.Cleanup(func() {
		Version, GitCommit, BuildOS, BuildArch = saved[0], saved[1], saved[2], saved[3]
	})

	Version, GitCommit, BuildOS, BuildArch = "", "", "", ""
	var buf bytes.Buffer
	Fprint(&buf)
	assert.Equal(t, "oauthprovider version dev\n", buf.String())

	Version = "1.4.0"
	GitCommit = "0123456789abcdef"
	BuildOS, BuildArch = "linux", "amd64"
	buf.Reset()
	Fprint(&buf)
	assert.Contains(t, buf.String(), "oauthprovider version 1.4.0\n")
	assert.Contains(t, buf.String(), "Git commit: 0123456\n")
	assert.Contains(t, buf.String(), "Built for: linux/amd64\n")
}
