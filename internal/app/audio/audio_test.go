package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "language-learner/internal/app/errors"
)

type call struct {
	name string
	args []string
}

// fakeRunner records invocations and creates the last argument as the
// output file, the way ffmpeg would.
func fakeRunner(t *testing.T, stdout string, fail error) *[]call {
	t.Helper()
	var calls []call
	orig := runCommand
	runCommand = func(_ context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, call{name: name, args: args})
		if fail != nil {
			return nil, fail
		}
		if name == "ffmpeg" {
			if err := os.WriteFile(args[len(args)-1], []byte("audio"), 0o644); err != nil {
				return nil, err
			}
		}
		return []byte(stdout), nil
	}
	t.Cleanup(func() { runCommand = orig })
	return &calls
}

func TestFFmpegExtractor_Extract(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "lesson01.mp4")
	mp3 := filepath.Join(dir, "audio", "lesson01.mp3")
	require.NoError(t, os.WriteFile(video, []byte("video"), 0o644))

	calls := fakeRunner(t, "", nil)
	ex := NewFFmpegExtractor(zap.NewNop())

	require.NoError(t, ex.Extract(context.Background(), video, mp3))
	require.Len(t, *calls, 1)
	assert.Equal(t, "ffmpeg", (*calls)[0].name)
	assert.Equal(t, []string{"-i", video, "-vn", "-acodec", "libmp3lame", "-y"}, (*calls)[0].args[:6])
	assert.FileExists(t, mp3)

	require.NoError(t, ex.Extract(context.Background(), video, mp3))
	assert.Len(t, *calls, 1, "existing audio is reused")
}

func TestFFmpegExtractor_Failures(t *testing.T) {
	dir := t.TempDir()
	ex := NewFFmpegExtractor(zap.NewNop())

	err := ex.Extract(context.Background(), filepath.Join(dir, "missing.mp4"), filepath.Join(dir, "a.mp3"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrAudioExtraction))

	video := filepath.Join(dir, "lesson.mp4")
	require.NoError(t, os.WriteFile(video, []byte("video"), 0o644))
	fakeRunner(t, "", errors.New("ffmpeg error: exit status 1"))

	err = ex.Extract(context.Background(), video, filepath.Join(dir, "lesson.mp3"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindTranscription, apperrors.KindOf(err))
	assert.NoFileExists(t, filepath.Join(dir, "lesson.mp3"))
}

func TestGetAudioDuration(t *testing.T) {
	fakeRunner(t, "125.48\n", nil)
	d, err := GetAudioDuration(context.Background(), "x.mp3")
	require.NoError(t, err)
	assert.InDelta(t, 125.48, d, 0.001)

	fakeRunner(t, "N/A", nil)
	_, err = GetAudioDuration(context.Background(), "x.mp3")
	assert.Error(t, err)
}

func TestIs16kHzWavFile(t *testing.T) {
	tests := []struct {
		name  string
		probe string
		want  bool
	}{
		{
			name:  "pcm_16k",
			probe: `{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"16000"}]}`,
			want:  true,
		},
		{
			name:  "mp3",
			probe: `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"44100"}]}`,
			want:  false,
		},
		{
			name:  "video_only",
			probe: `{"streams":[{"codec_type":"video","codec_name":"h264"}]}`,
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeRunner(t, tt.probe, nil)
			got, err := Is16kHzWavFile(context.Background(), "x.wav")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertTo16kHzWav(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "lesson.mp3")
	require.NoError(t, os.WriteFile(in, []byte("mp3"), 0o644))
	out := filepath.Join(dir, "tmp", "transcription_1.wav")
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o755))

	calls := fakeRunner(t, "", nil)
	require.NoError(t, ConvertTo16kHzWav(context.Background(), in, out))
	assert.FileExists(t, out)
	assert.Contains(t, (*calls)[0].args, "16000")
	assert.NoFileExists(t, filepath.Join(dir, "lesson_16khz.wav"))

	err := ConvertTo16kHzWav(context.Background(), filepath.Join(dir, "lesson.flac"), out)
	assert.ErrorContains(t, err, "unsupported audio format")
}
