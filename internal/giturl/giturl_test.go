package giturl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRemote(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantName  string
		wantHost  string
		wantErr   bool
	}{
		{
			name:      "https",
			input:     "https://github.com/acme/widget",
			wantOwner: "acme",
			wantName:  "widget",
			wantHost:  "github.com",
		},
		{
			name:      "https with .git",
			input:     "https://github.com/acme/widget.git",
			wantOwner: "acme",
			wantName:  "widget",
			wantHost:  "github.com",
		},
		{
			name:      "scp-like ssh",
			input:     "git@github.com:acme/widget.git",
			wantOwner: "acme",
			wantName:  "widget",
			wantHost:  "github.com",
		},
		{
			name:      "ssh scheme",
			input:     "ssh://git@github.com/acme/widget.git",
			wantOwner: "acme",
			wantName:  "widget",
			wantHost:  "github.com",
		},
		{
			name:      "git+https",
			input:     "git+https://github.com/acme/widget",
			wantOwner: "acme",
			wantName:  "widget",
			wantHost:  "github.com",
		},
		{
			name:      "enterprise host",
			input:     "https://github.example.com/acme/widget",
			wantOwner: "acme",
			wantName:  "widget",
			wantHost:  "github.example.com",
		},
		{
			name:    "missing repo segment",
			input:   "https://github.com/acme",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := FromRemote(tt.input)

			if tt.wantErr {
				var invalidErr *InvalidRemoteError
				require.ErrorAs(t, err, &invalidErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, repo.Owner)
			assert.Equal(t, tt.wantName, repo.Name)
			assert.Equal(t, tt.wantHost, repo.Host)
		})
	}
}

func TestFromArg(t *testing.T) {
	repo, err := FromArg("acme/widget")
	require.NoError(t, err)
	assert.Equal(t, "acme/widget", repo.FullName())
	assert.Equal(t, "github.com", repo.Host)

	repo, err = FromArg("https://github.com/acme/widget")
	require.NoError(t, err)
	assert.Equal(t, "acme/widget", repo.FullName())

	_, err = FromArg("just-a-name")
	require.Error(t, err)

	_, err = FromArg("a/b/c")
	require.Error(t, err)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://github.com/acme/widget"))
	assert.True(t, IsURL("git@github.com:acme/widget"))
	assert.True(t, IsURL("ssh://git@github.com/acme/widget"))
	assert.False(t, IsURL("acme/widget"))
}

func TestWebURL(t *testing.T) {
	repo := &Repository{Owner: "acme", Name: "widget", Host: "github.com"}
	assert.Equal(t, "https://github.com/acme/widget", repo.WebURL())
}
