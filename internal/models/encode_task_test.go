package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobIdentity(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "simple", path: "clip1.mp4", want: "clip1"},
		{name: "nested path", path: "/tmp/uploads/videos/temp/clip2.mov", want: "clip2"},
		{name: "multiple dots", path: "my.holiday.clip.mp4", want: "myholidayclip"},
		{name: "no extension", path: "/data/rawvideo", want: "rawvideo"},
		{name: "dot file", path: ".mp4", wantErr: true},
		{name: "empty", path: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JobIdentity(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrEmptyIdentity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJobIdentity_Collision(t *testing.T) {
	a, err := JobIdentity("/one/clip.mp4")
	require.NoError(t, err)
	b, err := JobIdentity("/two/clip.mkv")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestJobStatusCodes(t *testing.T) {
	assert.Equal(t, 0, int(JobStatusPending))
	assert.Equal(t, 1, int(JobStatusProcessing))
	assert.Equal(t, 2, int(JobStatusSuccess))
	assert.Equal(t, 3, int(JobStatusFailed))

	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusProcessing.IsTerminal())
	assert.True(t, JobStatusSuccess.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
	assert.Equal(t, "unknown", JobStatus(9).String())
	assert.False(t, JobStatus(9).Valid())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(JobStatusPending, JobStatusProcessing))
	assert.True(t, CanTransition(JobStatusProcessing, JobStatusSuccess))
	assert.True(t, CanTransition(JobStatusProcessing, JobStatusFailed))

	assert.False(t, CanTransition(JobStatusPending, JobStatusSuccess))
	assert.False(t, CanTransition(JobStatusPending, JobStatusFailed))
	assert.False(t, CanTransition(JobStatusProcessing, JobStatusPending))
	assert.False(t, CanTransition(JobStatusSuccess, JobStatusProcessing))
	assert.False(t, CanTransition(JobStatusFailed, JobStatusSuccess))
}
