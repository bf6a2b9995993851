package commands_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/xpfang/pkg/platform"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
	"github.com/Sumatoshi-tech/xpfang/pkg/session"
)

const (
	testUser     = "jdoe"
	testPassword = "secret"

	userBody = `{"user":[{"id":42,"login":"jdoe","attrs":{"firstName":"Jane","lastName":"Doe"}}]}`

	dashboardBody = `{
  "xp": [
    {"amount": 1000, "createdAt": "2024-01-10T08:00:00Z", "path": "/bahrain/bh-module/go-reloaded"},
    {"amount": 500, "createdAt": "2024-01-11T09:30:00Z", "path": "/bahrain/bh-module/ascii-art"}
  ],
  "up": [{"amount": 300, "createdAt": "2024-01-12T00:00:00Z", "path": "/bahrain/bh-module/ascii-art"}],
  "down": [{"amount": 200, "createdAt": "2024-01-12T00:00:00Z", "path": "/bahrain/bh-module/ascii-art"}],
  "progress": [
    {"grade": 1.2, "path": "/bahrain/bh-module/go-reloaded", "createdAt": "2024-01-10T08:00:00Z"},
    {"grade": 0, "path": "/bahrain/bh-module/ascii-art", "createdAt": "2024-01-11T08:00:00Z"}
  ]
}`
)

// fakePlatform serves the identity endpoint and the GraphQL gateway.
type fakePlatform struct {
	*httptest.Server

	token platform.Token
}

func newFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(72 * time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	fp := &fakePlatform{token: platform.Token(signed)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+platform.SignInPath, func(rw http.ResponseWriter, hr *http.Request) {
		user, password, ok := hr.BasicAuth()
		if !ok || user != testUser || password != testPassword {
			rw.WriteHeader(http.StatusForbidden)
			_, _ = rw.Write([]byte(`{"error":"User does not exist or password incorrect"}`))

			return
		}

		_ = json.NewEncoder(rw).Encode(string(fp.token))
	})
	mux.HandleFunc("POST "+platform.GraphQLPath, func(rw http.ResponseWriter, hr *http.Request) {
		if hr.Header.Get("Authorization") != "Bearer "+string(fp.token) {
			rw.WriteHeader(http.StatusUnauthorized)

			return
		}

		var req struct {
			Query string `json:"query"`
		}

		_ = json.NewDecoder(hr.Body).Decode(&req)

		data := dashboardBody
		if req.Query == profile.UserQuery {
			data = userBody
		}

		_, _ = rw.Write([]byte(`{"data":` + data + `}`))
	})

	fp.Server = httptest.NewServer(mux)
	t.Cleanup(fp.Close)

	return fp
}

// workspace is a temp dir holding a config file that points at fp.
type workspace struct {
	dir        string
	configPath string
	tokenPath  string
}

func newWorkspace(t *testing.T, fp *fakePlatform) workspace {
	t.Helper()

	dir := t.TempDir()
	ws := workspace{
		dir:        dir,
		configPath: filepath.Join(dir, "xpfang.yaml"),
		tokenPath:  filepath.Join(dir, "session", "token"),
	}

	cfg := strings.Join([]string{
		"api:",
		"  base_url: " + fp.URL,
		"  timeout: 5s",
		"session:",
		"  token_file: " + ws.tokenPath,
		"render:",
		"  theme: light",
		"  output: " + filepath.Join(dir, "report"),
		"logging:",
		"  level: error",
	}, "\n")

	require.NoError(t, os.WriteFile(ws.configPath, []byte(cfg), 0o600))

	return ws
}

func (ws workspace) signIn(t *testing.T, token platform.Token) {
	t.Helper()

	store, err := session.NewFileStore(ws.tokenPath)
	require.NoError(t, err)
	require.NoError(t, store.Set(token))
}

// run executes cmd with args and stdin, returning stdout.
func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), err
}
