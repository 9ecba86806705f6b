package identity

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// FileProvider stores the token in a small file, giving the CLI client
// the same durable "this device already responded" pointer a browser
// keeps in local storage.
type FileProvider struct {
	mu   sync.Mutex
	path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Get() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (p *FileProvider) Set(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return os.WriteFile(p.path, []byte(strconv.FormatInt(id, 10)+"\n"), 0o600)
}

func (p *FileProvider) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := os.Remove(p.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
