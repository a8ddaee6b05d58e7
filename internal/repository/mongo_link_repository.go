package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"slice-url/internal/entities"
)

// Collection names.
const (
	ColLinks    = "links"
	ColCodes    = "link_codes"
	ColUsers    = "users"
	ColVisitors = "visitors"
)

type clickDocument struct {
	Time      time.Time `bson:"time"`
	UserAgent string    `bson:"user_agent"`
	Source    string    `bson:"source"`
}

type linkDocument struct {
	ID          bson.ObjectID   `bson:"_id,omitempty"`
	ShortID     string          `bson:"shortId"`
	Alias       string          `bson:"alias"`
	OriginalURL string          `bson:"originalUrl"`
	ShortURL    string          `bson:"shortUrl"`
	Creator     string          `bson:"creator"`
	Clicks      int64           `bson:"clicks"`
	ClickedAt   []clickDocument `bson:"clickedAt"`
	CreatedAt   time.Time       `bson:"createdAt"`
}

// codeDocument registers a short id or alias; _id makes the code unique.
type codeDocument struct {
	Code string `bson:"_id"`
}

func (d *linkDocument) toEntity() *entities.Link {
	clicks := make([]entities.ClickEvent, len(d.ClickedAt))
	for i, c := range d.ClickedAt {
		clicks[i] = entities.ClickEvent{Time: c.Time, UserAgent: c.UserAgent, Source: c.Source}
	}
	return &entities.Link{
		ID:          d.ID.Hex(),
		ShortID:     d.ShortID,
		Alias:       d.Alias,
		OriginalURL: d.OriginalURL,
		ShortURL:    d.ShortURL,
		Creator:     d.Creator,
		Clicks:      d.Clicks,
		ClickedAt:   clicks,
		CreatedAt:   d.CreatedAt,
	}
}

type mongoLinkRepository struct {
	links *mongo.Collection
	codes *mongo.Collection
}

// NewMongoLinkRepository creates a link repository backed by MongoDB
func NewMongoLinkRepository(db *mongo.Database) LinkRepository {
	return &mongoLinkRepository{
		links: db.Collection(ColLinks),
		codes: db.Collection(ColCodes),
	}
}

func (r *mongoLinkRepository) registerCode(ctx context.Context, code string) error {
	_, err := r.codes.InsertOne(ctx, codeDocument{Code: code})
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to register code: %w", err)
	}
	return nil
}

func (r *mongoLinkRepository) releaseCodes(ctx context.Context, codes ...string) error {
	_, err := r.codes.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": codes}})
	if err != nil {
		return fmt.Errorf("failed to release codes: %w", err)
	}
	return nil
}

func (r *mongoLinkRepository) Create(ctx context.Context, link *entities.Link) (*entities.Link, error) {
	if err := r.registerCode(ctx, link.ShortID); err != nil {
		return nil, err
	}

	doc := linkDocument{
		ShortID:     link.ShortID,
		Alias:       "",
		OriginalURL: link.OriginalURL,
		ShortURL:    link.ShortURL,
		Creator:     link.Creator,
		Clicks:      0,
		ClickedAt:   []clickDocument{},
		CreatedAt:   time.Now().UTC(),
	}

	result, err := r.links.InsertOne(ctx, doc)
	if err != nil {
		// The code is ours; give it back so it can be generated again.
		_ = r.releaseCodes(ctx, link.ShortID)
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toEntity(), nil
}

func (r *mongoLinkRepository) FindByShortID(ctx context.Context, shortID string) (*entities.Link, error) {
	var doc linkDocument
	err := r.links.FindOne(ctx, bson.M{"shortId": shortID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *mongoLinkRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	count, err := r.codes.CountDocuments(ctx, bson.M{"_id": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return count > 0, nil
}

func (r *mongoLinkRepository) ListByCreator(ctx context.Context, creator string) ([]*entities.Link, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.links.Find(ctx, bson.M{"creator": creator}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}

	var docs []linkDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode links: %w", err)
	}

	links := make([]*entities.Link, len(docs))
	for i := range docs {
		links[i] = docs[i].toEntity()
	}
	return links, nil
}

func (r *mongoLinkRepository) Delete(ctx context.Context, shortID string) error {
	var doc linkDocument
	err := r.links.FindOneAndDelete(ctx, bson.M{"shortId": shortID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	codes := []string{doc.ShortID}
	if doc.Alias != "" {
		codes = append(codes, doc.Alias)
	}
	return r.releaseCodes(ctx, codes...)
}

func (r *mongoLinkRepository) SetAlias(ctx context.Context, shortID, alias, shortURL string) (*entities.Link, error) {
	var before linkDocument
	err := r.links.FindOne(ctx, bson.M{"shortId": shortID}).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}

	if err := r.registerCode(ctx, alias); err != nil {
		return nil, err
	}

	// Only swap if no concurrent SetAlias replaced the alias read above.
	var after linkDocument
	err = r.links.FindOneAndUpdate(ctx,
		aliasSwapFilter(shortID, before.Alias),
		bson.M{"$set": bson.M{"alias": alias, "shortUrl": shortURL}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&after)
	if err != nil {
		if releaseErr := r.releaseCodes(ctx, alias); releaseErr != nil {
			return nil, releaseErr
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.lostSwap(ctx, shortID)
		}
		return nil, fmt.Errorf("failed to update alias: %w", err)
	}

	if before.Alias != "" {
		if err := r.releaseCodes(ctx, before.Alias); err != nil {
			return nil, err
		}
	}
	return after.toEntity(), nil
}

// aliasSwapFilter matches the link only while it still carries previous as its alias.
func aliasSwapFilter(shortID, previous string) bson.M {
	if previous == "" {
		// null also matches documents without the field
		return bson.M{"shortId": shortID, "alias": bson.M{"$in": bson.A{"", nil}}}
	}
	return bson.M{"shortId": shortID, "alias": previous}
}

// lostSwap tells a deleted link from one whose alias changed underneath us.
func (r *mongoLinkRepository) lostSwap(ctx context.Context, shortID string) error {
	count, err := r.links.CountDocuments(ctx, bson.M{"shortId": shortID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to find link: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (r *mongoLinkRepository) RecordClick(ctx context.Context, code string, click entities.ClickEvent) (*entities.Link, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"shortId": code},
		bson.M{"alias": code},
	}}
	update := bson.M{
		"$inc": bson.M{"clicks": 1},
		"$push": bson.M{"clickedAt": clickDocument{
			Time:      click.Time.UTC(),
			UserAgent: click.UserAgent,
			Source:    click.Source,
		}},
	}
	// The click history can be long; the caller only needs the target.
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"clickedAt": 0})

	var doc linkDocument
	err := r.links.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record click: %w", err)
	}
	return doc.toEntity(), nil
}
