package repositories

import (
	"enrollment-backend/config"
	"enrollment-backend/db/models"
	"enrollment-backend/tables"

	"go.uber.org/zap"
)

// The document table is mutated in memory and written back whole by
// tables.LedgerRepository.Save; these helpers never touch the host.

// Append adds document rows to the table.
func Append(table *tables.Table, documents ...models.Document) {
	for _, doc := range documents {
		table.Append(doc.ToRow())
	}
}

// ByOwner returns the documents owned by ownerID in table order.
func ByOwner(table *tables.Table, ownerID string) []models.Document {
	var documents []models.Document
	for _, row := range table.Rows {
		if row[models.DocumentColumnOwnerID] == ownerID {
			documents = append(documents, models.DocumentFromRow(row))
		}
	}
	return documents
}

// All returns every document in the table.
func All(table *tables.Table) []models.Document {
	documents := make([]models.Document, 0, table.Len())
	for _, row := range table.Rows {
		documents = append(documents, models.DocumentFromRow(row))
	}
	return documents
}

// RekeyOwner moves every row owned by fromID to toID and returns how many
// rows changed. Used once an applicant's permanent id has been assigned.
func RekeyOwner(table *tables.Table, fromID, toID string) int {
	if fromID == "" || fromID == toID {
		return 0
	}

	changed := 0
	for _, row := range table.Rows {
		if row[models.DocumentColumnOwnerID] == fromID {
			row[models.DocumentColumnOwnerID] = toID
			changed++
		}
	}

	if changed > 0 {
		config.Logger.Info("Re-keyed documents",
			zap.String("from_owner", fromID),
			zap.String("to_owner", toID),
			zap.Int("rows", changed))
	}
	return changed
}

// StoredFilenames returns the filenames already recorded.
func StoredFilenames(table *tables.Table) map[string]struct{} {
	return table.Values(models.DocumentColumnStoredFilename)
}

// ByStoredFilename finds a document by its stored filename.
func ByStoredFilename(table *tables.Table, name string) (models.Document, bool) {
	i := table.Find(models.DocumentColumnStoredFilename, name)
	if i < 0 {
		return models.Document{}, false
	}
	return models.DocumentFromRow(table.Rows[i]), true
}
