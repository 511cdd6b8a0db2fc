package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Credential is a signed initData blob saved by `tapctl sign --save` so
// subsequent commands don't need re-signing.
type Credential struct {
	InitData string `json:"init_data"`
}

func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".tapctl")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func credentialPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credential.json"), nil
}

func SaveCredential(c Credential) error {
	path, err := credentialPath()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func LoadCredential() (Credential, error) {
	var c Credential
	path, err := credentialPath()
	if err != nil {
		return c, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, fmt.Errorf("no saved credential; run `tapctl sign --save` or set TAPCTL_INIT_DATA")
		}
		return c, err
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, err
	}
	if strings.TrimSpace(c.InitData) == "" {
		return c, fmt.Errorf("saved credential is empty")
	}
	return c, nil
}

func ClearCredential() error {
	path, err := credentialPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
