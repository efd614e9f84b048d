// inference-check exercises the configured inference backend and the
// optional evidence store against live credentials.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nnish16/Tourist-Safety/internal/evidence"
	"github.com/nnish16/Tourist-Safety/internal/harden"
	"github.com/nnish16/Tourist-Safety/internal/inference"
)

func main() {
	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Get credentials from environment
	endpoint := os.Getenv("GEMINI_ENDPOINT")
	apiKey := os.Getenv("GEMINI_API_KEY")
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	storageAccountName := os.Getenv("EVIDENCE_STORAGE_ACCOUNT_NAME")
	storageAccountKey := os.Getenv("EVIDENCE_STORAGE_ACCOUNT_KEY")

	if endpoint == "" || apiKey == "" {
		logger.Fatal("Missing inference credentials. Set GEMINI_ENDPOINT and GEMINI_API_KEY")
	}

	ctx := context.Background()

	logger.Info("=== Testing inference client ===")
	if err := testInferenceClient(ctx, endpoint, apiKey, model, logger); err != nil {
		logger.Error("Inference client test failed", zap.Error(err))
	} else {
		logger.Info("Inference client test passed")
	}

	if storageAccountName != "" && storageAccountKey != "" {
		logger.Info("=== Testing evidence blob store ===")
		if err := testEvidenceStore(ctx, storageAccountName, storageAccountKey, logger); err != nil {
			logger.Error("Evidence store test failed", zap.Error(err))
		} else {
			logger.Info("Evidence store test passed")
		}
	} else {
		logger.Info("Skipping evidence store test, no storage credentials set")
	}

	logger.Info("=== All tests completed ===")
}

func testInferenceClient(ctx context.Context, endpoint, apiKey, model string, logger *zap.Logger) error {
	client, err := inference.NewGeminiClient(endpoint, apiKey, model, 20*time.Second, logger)
	if err != nil {
		return fmt.Errorf("failed to create inference client: %w", err)
	}

	raw, err := client.Infer(ctx, inference.Request{
		Kind:    inference.KindIntentParse,
		Payload: inference.IntentPayload{Description: "I lost my way back to the hotel"},
	})
	if err != nil {
		return fmt.Errorf("intent parse failed: %w", err)
	}

	intent := harden.New(logger).Intent(raw)
	logger.Info("Intent parse completed",
		zap.String("intent", intent.Intent),
		zap.Float64("confidence", intent.Confidence),
		zap.String("reasoning", intent.Reasoning),
	)

	return nil
}

func testEvidenceStore(ctx context.Context, accountName, accountKey string, logger *zap.Logger) error {
	store, err := evidence.NewBlobStore(accountName, accountKey, "incident-evidence", logger)
	if err != nil {
		return fmt.Errorf("failed to create evidence store: %w", err)
	}

	ref, err := store.Save(ctx, fmt.Sprintf("INC-check-%d", time.Now().Unix()), inference.MediaPart{
		MIME: "image/jpeg",
		Data: []byte("test evidence payload"),
	})
	if err != nil {
		return fmt.Errorf("evidence upload failed: %w", err)
	}

	logger.Info("Evidence uploaded successfully", zap.String("ref", ref))
	return nil
}
