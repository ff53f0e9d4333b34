package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"enrollment-backend/config"
	"enrollment-backend/db/models"
	"enrollment-backend/remote"

	"go.uber.org/zap"
)

// ErrDocumentExists means the target name is already taken on the host.
// Two uploads of the same type for the same owner within one minute collide.
var ErrDocumentExists = errors.New("document already exists")

// ErrUnsafeName means the generated filename would leave its category folder.
var ErrUnsafeName = errors.New("document name escapes its folder")

// PlaceRequest is one document to store.
type PlaceRequest struct {
	OwnerID      string
	Program      string
	FullName     string
	DocumentType string
	OriginalName string
	Content      []byte
	// Recorded holds filenames already in the document table. A name found
	// there is a collision even when the file is gone from the host.
	Recorded map[string]struct{}
}

// Placer writes documents under {root}/{category}/ with standardized names.
type Placer struct {
	dialer    remote.Dialer
	root      string
	overwrite bool
	now       func() time.Time
}

// NewPlacer returns a placer rooted at root. With overwrite set an existing
// file is replaced instead of reported, which is what the mirror push needs.
func NewPlacer(dialer remote.Dialer, root string, overwrite bool) *Placer {
	if root == "" {
		root = "/"
	}
	return &Placer{
		dialer:    dialer,
		root:      root,
		overwrite: overwrite,
		now:       time.Now,
	}
}

// WithClock replaces the placement clock.
func (p *Placer) WithClock(now func() time.Time) *Placer {
	p.now = now
	return p
}

func (p *Placer) Root() string {
	return p.root
}

// Place stores one document and returns its ledger record.
func (p *Placer) Place(ctx context.Context, req PlaceRequest) (models.Document, error) {
	at := p.now()
	program, _ := ResolveProgram(req.Program)

	fileName := BuildFileName(FileName{
		OwnerID:      req.OwnerID,
		ProgramCode:  program.Code,
		FullName:     req.FullName,
		DocumentType: req.DocumentType,
		OriginalName: req.OriginalName,
		At:           at,
	})

	if len(req.Content) == 0 {
		config.Logger.Warn("Document has zero size", zap.String("filename", fileName))
	}

	folder := path.Join(p.root, program.Category)
	target := path.Join(folder, fileName)
	if path.Dir(target) != folder || path.Base(target) != fileName {
		config.Logger.Warn("Refusing document name outside its folder",
			zap.String("owner_id", req.OwnerID),
			zap.String("filename", fileName))
		return models.Document{}, fmt.Errorf("%w: %q", ErrUnsafeName, fileName)
	}

	if _, taken := req.Recorded[fileName]; taken && !p.overwrite {
		return models.Document{}, fmt.Errorf("%w: %s is already recorded", ErrDocumentExists, fileName)
	}

	err := p.write(ctx, folder, target, req.Content)
	if err != nil {
		config.Logger.Error("Failed to place document",
			zap.String("owner_id", req.OwnerID),
			zap.String("path", target),
			zap.Error(err))
		return models.Document{}, err
	}

	config.Logger.Info("Document placed",
		zap.String("owner_id", req.OwnerID),
		zap.String("path", target),
		zap.Int("size_bytes", len(req.Content)))

	return models.Document{
		OwnerID:        req.OwnerID,
		StoredFilename: fileName,
		DocumentType:   req.DocumentType,
		UploadedAt:     models.FormatTimestamp(at),
		ReviewStatus:   models.PendingReview,
		StoragePath:    target,
	}, nil
}

// Copy writes content to the same relative location another placer used.
// It keeps the stored filename instead of generating a new one.
func (p *Placer) Copy(ctx context.Context, doc models.Document, sourceRoot string, content []byte) (string, error) {
	rel := relativeTo(sourceRoot, doc.StoragePath)
	target := path.Join(p.root, rel)

	if err := p.write(ctx, path.Dir(target), target, content); err != nil {
		return "", err
	}
	return target, nil
}

func (p *Placer) write(ctx context.Context, folder, target string, content []byte) error {
	return remote.WithSession(ctx, p.dialer, func(session remote.Session) error {
		if err := remote.EnsureDirectory(session, folder); err != nil {
			return err
		}

		if !p.overwrite {
			_, err := session.Stat(target)
			if err == nil {
				return fmt.Errorf("%w: %s", ErrDocumentExists, target)
			}
			if !remote.IsNotExist(err) {
				return fmt.Errorf("failed to check %s: %w", target, err)
			}
		}

		if err := session.WriteFile(target, content); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		return nil
	})
}

// ReadDocument fetches a stored document's bytes.
func (p *Placer) ReadDocument(ctx context.Context, storagePath string) ([]byte, error) {
	var data []byte
	err := remote.WithSession(ctx, p.dialer, func(session remote.Session) error {
		var err error
		data, err = session.ReadFile(storagePath)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", storagePath, err)
	}
	return data, nil
}

func relativeTo(root, p string) string {
	root = path.Clean("/" + root)
	p = path.Clean("/" + p)
	if root == "/" {
		return p[1:]
	}
	if len(p) > len(root) && p[:len(root)] == root && p[len(root)] == '/' {
		return p[len(root)+1:]
	}
	// Outside the root: keep the category folder and the name.
	return path.Join(path.Base(path.Dir(p)), path.Base(p))
}
