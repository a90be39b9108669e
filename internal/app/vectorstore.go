package app

import (
	"os"
	"strings"

	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/platform/pinecone"
)

// wireVectorStore picks the external ANN index backing the Retrieval
// Engine's dense leg, if any is configured: PINECONE_INDEX_NAME set
// means an external index is available, and a nil, nil result (not
// configured) means internal/retrieval falls back to its Postgres
// cosine scan -- the default for local/dev and small catalogs.
func wireVectorStore(baseLog *logger.Logger) (pinecone.VectorStore, error) {
	if strings.TrimSpace(os.Getenv("PINECONE_INDEX_NAME")) == "" {
		baseLog.Info("no external ANN index configured, dense retrieval falls back to Postgres cosine scan")
		return nil, nil
	}

	client, err := pinecone.New(baseLog, pinecone.Config{APIKey: os.Getenv("PINECONE_API_KEY")})
	if err != nil {
		return nil, err
	}
	store, err := pinecone.NewVectorStore(baseLog, client)
	if err != nil {
		return nil, err
	}
	baseLog.Info("dense retrieval backed by pinecone")
	return store, nil
}
