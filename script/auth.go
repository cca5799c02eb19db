package script

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v6/plumbing/transport"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
	"github.com/go-git/go-git/v6/plumbing/transport/ssh"
)

// AuthType defines the type of authentication
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeToken AuthType = "token"
	AuthTypeSSH   AuthType = "ssh"
	AuthTypeBasic AuthType = "basic"
)

// GitAuth holds credentials for fetching scripts from a git remote
type GitAuth struct {
	Type       AuthType `yaml:"type"`
	Token      string   `yaml:"token"`      // For token auth
	KeyPath    string   `yaml:"key_path"`   // For SSH key auth
	Passphrase string   `yaml:"passphrase"` // For SSH key with passphrase
	Username   string   `yaml:"username"`   // For basic auth
	Password   string   `yaml:"password"`   // For basic auth
}

// authMethod converts GitAuth to go-git's AuthMethod
func (auth *GitAuth) authMethod() (transport.AuthMethod, error) {
	if auth == nil {
		return nil, nil
	}

	switch auth.Type {
	case AuthTypeNone, "":
		return nil, nil

	case AuthTypeToken:
		// Token auth uses username "git" or any non-empty string
		return &http.BasicAuth{
			Username: "git",
			Password: auth.Token,
		}, nil

	case AuthTypeSSH:
		keyPath := auth.KeyPath
		if keyPath == "" {
			home, _ := os.UserHomeDir()
			keyPath = filepath.Join(home, ".ssh", "id_rsa")
		}
		return ssh.NewPublicKeysFromFile("git", keyPath, auth.Passphrase)

	case AuthTypeBasic:
		return &http.BasicAuth{
			Username: auth.Username,
			Password: auth.Password,
		}, nil

	default:
		return nil, fmt.Errorf("unknown auth type: %s", auth.Type)
	}
}
