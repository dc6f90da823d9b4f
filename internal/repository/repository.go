// Package repository maps raw gateway documents into typed domain entities.
// Shape validation happens here: a document that fails to decode surfaces as
// a MalformedRecord error instead of propagating loosely-typed data upward.
package repository

import (
	"encoding/json"

	"github.com/clinicware/clinic-api/internal/docstore"
	apperrors "github.com/clinicware/clinic-api/pkg/errors"
)

func decode(collection string, doc docstore.Document, v interface{}) error {
	if err := json.Unmarshal(doc.Data, v); err != nil {
		return apperrors.MalformedRecord(collection, doc.ID, err)
	}
	return nil
}

func encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
