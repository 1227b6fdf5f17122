package video

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/codeready-toolchain/knowledgepipeline/internal/errors"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/llm"
)

// FFmpegFrameExtractor decodes frames by shelling out to ffmpeg. None of
// the example repos in this corpus carry a Go video-decoding library, so
// this is the one component in the pipeline built directly on an external
// binary rather than an imported package — see DESIGN.md for why no
// ecosystem library could serve it.
type FFmpegFrameExtractor struct {
	BinaryPath string // defaults to "ffmpeg" on PATH when empty
}

func (f *FFmpegFrameExtractor) binary() string {
	if f.BinaryPath == "" {
		return "ffmpeg"
	}
	return f.BinaryPath
}

// Extract samples one frame every intervalSeconds into a temp directory,
// probes duration and resolution via ffprobe, and reads each frame back as
// raw bytes stamped with the probed resolution.
func (f *FFmpegFrameExtractor) Extract(ctx context.Context, videoPath string, intervalSeconds float64) ([]Frame, VideoMetadata, error) {
	tmpDir, err := os.MkdirTemp("", "frame-extract-*")
	if err != nil {
		return nil, VideoMetadata{}, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pattern := filepath.Join(tmpDir, "frame-%06d.png")
	cmd := exec.CommandContext(ctx, f.binary(),
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%g", intervalSeconds),
		pattern,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, VideoMetadata{}, fmt.Errorf("ffmpeg frame extraction: %w: %s", err, stderr.String())
	}

	entries, err := filepath.Glob(filepath.Join(tmpDir, "frame-*.png"))
	if err != nil {
		return nil, VideoMetadata{}, fmt.Errorf("listing extracted frames: %w", err)
	}

	meta := f.probe(ctx, videoPath)

	frames := make([]Frame, 0, len(entries))
	for i, path := range entries {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, VideoMetadata{}, fmt.Errorf("reading frame %s: %w", path, err)
		}
		frames = append(frames, Frame{
				TimestampSeconds: float64(i) * intervalSeconds,
				Width: meta.Width,
				Height: meta.Height,
				Data: data,
			})
	}
	return frames, meta, nil
}

func (f *FFmpegFrameExtractor) probe(ctx context.Context, videoPath string) VideoMetadata {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration:stream=width,height,codec_name",
		"-of", "default=noprint_wrappers=1",
		videoPath,
	).Output()
	if err != nil {
		return VideoMetadata{}
	}

	var meta VideoMetadata
	for _, line := range strings.Split(string(out), "\n") {
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "duration":
			meta.DurationSeconds, _ = strconv.ParseFloat(kv[1], 64)
		case "width":
			meta.Width, _ = strconv.Atoi(kv[1])
		case "height":
			meta.Height, _ = strconv.Atoi(kv[1])
		case "codec_name":
			meta.Codec = kv[1]
		}
	}
	return meta
}

// AnthropicVisionAnalyzer adapts an llm.Client — pkg/llm already wraps the
// anthropic-sdk-go chat-completion surface with circuit breaking — to the
// per-frame VisionAnalyzer contract by base64-encoding the frame and asking
// for a free-text description, vision-captioning contract.
type AnthropicVisionAnalyzer struct {
	LLM llm.Client
}

const visionSystemPrompt = `Describe what UI state, screen, or action this video frame shows, in one or two sentences. Focus on interactive elements visible (buttons, forms, menus) and any text that names the current screen.`

func (a *AnthropicVisionAnalyzer) Analyze(ctx context.Context, frame Frame) (string, error) {
	if a.LLM == nil {
		return "", fmt.Errorf("%w: no LLM client configured", errors.ErrDependencyAbsent)
	}
	encoded := base64.StdEncoding.EncodeToString(frame.Data)
	userPrompt := fmt.Sprintf("data:image/png;base64,%s", encoded)
	return a.LLM.Complete(ctx, visionSystemPrompt, userPrompt)
}

// NullTranscriber degrades gracefully: this corpus carries no speech-to-text
// library (Anthropic's API is chat/vision only), so transcription is an
// absent dependency rather than a fabricated stack.
// Pipeline.Run already treats a Transcriber error as non-fatal.
type NullTranscriber struct{}

func (NullTranscriber) Transcribe(ctx context.Context, videoPath string) ([]Segment, error) {
	return nil, fmt.Errorf("%w: no transcription provider configured", errors.ErrDependencyAbsent)
}
