package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, DefaultExtensions, opts.Extensions)
	assert.Equal(t, 80*time.Millisecond, opts.PollInterval)
	assert.Equal(t, 2500*time.Millisecond, opts.StabilityTimeout)
	assert.Equal(t, 64, opts.EventBufferSize)
}

func TestOptions_WithDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want Options
	}{
		{
			name: "empty options get defaults",
			opts: Options{},
			want: DefaultOptions(),
		},
		{
			name: "partial options keep custom values",
			opts: Options{
				PollInterval: 10 * time.Millisecond,
			},
			want: Options{
				Extensions:       DefaultExtensions,
				PollInterval:     10 * time.Millisecond,
				StabilityTimeout: 2500 * time.Millisecond,
				EventBufferSize:  64,
			},
		},
		{
			name: "all custom values preserved",
			opts: Options{
				Extensions:       []string{".png"},
				PollInterval:     5 * time.Millisecond,
				StabilityTimeout: time.Second,
				EventBufferSize:  8,
			},
			want: Options{
				Extensions:       []string{".png"},
				PollInterval:     5 * time.Millisecond,
				StabilityTimeout: time.Second,
				EventBufferSize:  8,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.WithDefaults()
			assert.Equal(t, tt.want.Extensions, got.Extensions)
			assert.Equal(t, tt.want.PollInterval, got.PollInterval)
			assert.Equal(t, tt.want.StabilityTimeout, got.StabilityTimeout)
			assert.Equal(t, tt.want.EventBufferSize, got.EventBufferSize)
		})
	}
}

func TestExtensionSet_Contains(t *testing.T) {
	set := newExtensionSet(DefaultExtensions)

	tests := []struct {
		name string
		ext  string
		want bool
	}{
		{"lowercase png", ".png", true},
		{"uppercase png", ".PNG", true},
		{"mixed case jpeg", ".JpEg", true},
		{"text file", ".txt", false},
		{"no extension", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, set.contains(tt.ext))
		})
	}
}

func TestExtensionSet_LowercasesConfiguredEntries(t *testing.T) {
	// Given: an allow-list configured with odd casing
	set := newExtensionSet([]string{".PNG", ".Webp"})

	// Then: matching stays case-insensitive both ways
	assert.True(t, set.contains(".png"))
	assert.True(t, set.contains(".WEBP"))
	assert.False(t, set.contains(".gif"))
}
