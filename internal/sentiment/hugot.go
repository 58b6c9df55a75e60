package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/commentflow/internal/models"
)

const HUGOT_BATCH_SIZE = 32

type textClassificationPipeline interface {
	RunPipeline(inputs []string) (*pipelines.TextClassificationOutput, error)
}

// HugotClassifier runs a local ONNX text-classification model.
type HugotClassifier struct {
	pipeline  textClassificationPipeline
	session   *hugot.Session
	batchSize int
}

// NewHugotClassifier loads modelName from modelDir, downloading it first when
// it is not present. Close releases the ONNX session.
func NewHugotClassifier(modelName, modelDir string) (*HugotClassifier, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("[HugotClassifier] create model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[HugotClassifier] Model not found, downloading...",
			slog.String("model", modelName))
		modelPath, err = hugot.DownloadModel(modelName, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("[HugotClassifier] download model: %w", err)
		}
		slog.Info("[HugotClassifier] Model downloaded successfully", slog.String("path", modelPath))
	} else {
		slog.Info("[HugotClassifier] Using existing model", slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("[HugotClassifier] init session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "commentSentimentPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("[HugotClassifier] init pipeline: %w", err)
	}

	return &HugotClassifier{pipeline: pipeline, session: session, batchSize: HUGOT_BATCH_SIZE}, nil
}

func (h *HugotClassifier) Close() error {
	if h.session == nil {
		return nil
	}
	return h.session.Destroy()
}

func (h *HugotClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	results := make([]models.SentimentResult, 0, len(texts))

	for _, batch := range chunkTexts(texts, h.batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cleaned := make([]string, len(batch))
		for i, text := range batch {
			cleaned[i] = ConvertMarkdownToText(text)
		}

		output, err := h.pipeline.RunPipeline(cleaned)
		if err != nil {
			return nil, fmt.Errorf("run pipeline: %w", err)
		}
		if len(output.ClassificationOutputs) != len(batch) {
			return nil, fmt.Errorf("%w: %d inputs, %d outputs", ErrResultCountMismatch, len(batch), len(output.ClassificationOutputs))
		}

		for _, classes := range output.ClassificationOutputs {
			if len(classes) == 0 {
				return nil, errors.New("pipeline returned no class for an input")
			}
			results = append(results, models.SentimentResult{
				Label: strings.ToUpper(classes[0].Label),
				Score: float64(classes[0].Score),
			})
		}
	}

	return results, nil
}

// chunkTexts splits texts into groups of at most size.
func chunkTexts(texts []string, size int) [][]string {
	var batches [][]string
	for i := 0; i < len(texts); i += size {
		end := i + size
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, texts[i:end])
	}
	return batches
}
