package adapters

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
)

// FileTransportAdapter records beacons instead of sending them.
// Each URL is appended as one line to a journal file, which makes the
// send pipeline usable offline and easy to inspect.
type FileTransportAdapter struct {
	filepath string
	mu       sync.Mutex
}

// Ensure FileTransportAdapter implements TransportAdapter interface
var _ TransportAdapter = (*FileTransportAdapter)(nil)

// NewFileTransportAdapter creates a new FileTransportAdapter instance.
//
// Parameters:
//   - filepath: Path to the journal file beacons are appended to
func NewFileTransportAdapter(filepath string) *FileTransportAdapter {
	return &FileTransportAdapter{filepath: filepath}
}

// Send appends url to the journal and calls done.
// Write failures are not reported, mirroring a beacon that was lost on the wire.
func (f *FileTransportAdapter) Send(_ context.Context, url string, done func()) {
	defer done()
	_ = f.Append(url)
}

// Append writes url to the journal.
func (f *FileTransportAdapter) Append(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.filepath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, url); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}

// Load retrieves journaled URLs in the order they were written.
// Returns empty slice if file doesn't exist.
func (f *FileTransportAdapter) Load() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	defer file.Close()

	urls := []string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return urls, nil
}

// Clear removes the journal file.
func (f *FileTransportAdapter) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.filepath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
