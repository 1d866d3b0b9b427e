package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.NewString()
}

func GenerateUploadOperationID() string {
	return uuid.NewString()
}

// GenerateReferenceNumber builds the reference number for manual payment
// methods when the caller did not supply one: {methodId}-{timestamp}, with a
// short random suffix so two submissions in the same second cannot collide.
func GenerateReferenceNumber(methodID string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%d-%s", methodID, time.Now().Unix(), suffix)
}
