package main

import (
	"language-learner/cmd/learner/cmd"

	// Register transcription backends
	_ "language-learner/internal/app/api/gemini"
	_ "language-learner/internal/app/api/openai/whisper"
	_ "language-learner/internal/app/api/whisper_cpp"
)

func main() {
	cmd.Execute()
}
