// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Firestore keeps one document per paper, keyed by paper ID.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore creates a client for projectID. collection defaults to
// "papers".
func NewFirestore(ctx context.Context, projectID, collection string) (*Firestore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore store: project_id must be set")
	}
	if collection == "" {
		collection = "papers"
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	slog.Info("paper store opened", "driver", DriverFirestore, "project", projectID, "collection", collection)
	return &Firestore{client: client, collection: collection}, nil
}

func (s *Firestore) doc(id string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(id)
}

func (s *Firestore) Get(ctx context.Context, id string) (types.Paper, error) {
	snap, err := s.doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return types.Paper{}, ErrNotFound
	}
	if err != nil {
		return types.Paper{}, fmt.Errorf("reading paper %s: %w", id, err)
	}
	var p types.Paper
	if err := snap.DataTo(&p); err != nil {
		return types.Paper{}, fmt.Errorf("decoding paper %s: %w", id, err)
	}
	return p, nil
}

func (s *Firestore) List(ctx context.Context) ([]types.Paper, error) {
	snaps, err := s.client.Collection(s.collection).
		OrderBy("generatedAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}

	papers := make([]types.Paper, 0, len(snaps))
	for _, snap := range snaps {
		var p types.Paper
		if err := snap.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decoding paper %s: %w", snap.Ref.ID, err)
		}
		papers = append(papers, p)
	}
	return papers, nil
}

func (s *Firestore) Create(ctx context.Context, p types.Paper) (types.Paper, error) {
	p = prepare(p)
	if _, err := s.doc(p.ID).Create(ctx, p); err != nil {
		return types.Paper{}, fmt.Errorf("saving paper: %w", err)
	}
	return p, nil
}

func (s *Firestore) Delete(ctx context.Context, id string) error {
	_, err := s.doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	return nil
}

// Close closes the client.
func (s *Firestore) Close() error {
	return s.client.Close()
}
