package bufferedlogger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer for readers running next to the logger.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRaceRequestLoggersShareLogger(t *testing.T) {
	var out syncBuffer
	config := DefaultConfig()
	config.EnableConsole = false
	config.Outputs = []io.Writer{&out}

	shared, err := NewLogger(config)
	require.NoError(t, err)
	defer shared.Close()

	router := NewFaultRouter().Map(&parseError{}, shared)

	const requests = 50
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			New(NewRequest(fmt.Sprintf("T%d", i)), shared).
				CreateInternalFaultHandler(shared, router).
				Append("start").
				RecordInternalFault(&parseError{offset: i}).
				RecordBusinessFault(errors.New("rejected")).
				Flush()
		}(i)
	}

	// concurrent level changes while requests flush
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			shared.SetLogLevel(LogLevel(i % 2))
		}
	}()

	wg.Wait()

	// each request writes one record plus two deliveries per fault
	lines := strings.Count(out.String(), "\n")
	assert.Equal(t, requests*5, lines)
}

func TestRaceLoggerCloseWhileWriting(t *testing.T) {
	config := DefaultConfig()
	config.EnableConsole = false
	config.EnableFallback = false
	config.Outputs = []io.Writer{io.Discard}

	logger, err := NewLogger(config)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			logger.Write(INFO, "message during shutdown", nil)
		}
	}()
	go func() {
		defer wg.Done()
		logger.Close()
	}()
	wg.Wait()

	assert.True(t, logger.IsClosed())
}
