package clipboard

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/iudanet/ideacapsule/internal/models"
)

// HashBytes хеширует данные с использованием SHA256 и возвращает hex строку
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ContentHash is the dedup key: image bytes for images with a blob,
// the UTF-8 content otherwise
func ContentHash(itemType, content string, blob []byte) string {
	if itemType == models.ItemTypeImage && len(blob) > 0 {
		return HashBytes(blob)
	}
	return HashBytes([]byte(content))
}
