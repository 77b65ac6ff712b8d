package services

import (
	"context"
	"errors"
	"fmt"

	"sparkd_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchStore owns match records. The table is keyed by the canonical pair id,
// so the one-active-match-per-pair invariant is enforced by the storage
// layer's conditional put, not by application locking.
type MatchStore interface {
	// Create writes a new match. Returns ErrConflict when an active match for
	// the pair already exists (the concurrent path won the race).
	Create(ctx context.Context, match *models.MatchRecord) error

	GetByPair(ctx context.Context, pairID string) (*models.MatchRecord, error)
	GetByMatchID(ctx context.Context, matchID string) (*models.MatchRecord, error)

	UpdateStatus(ctx context.Context, pairID string, status models.MatchStatus, endedBy, reason string) error

	// SaveEngagement persists recomputed interaction counters, per-side state
	// and the derived engagement score.
	SaveEngagement(ctx context.Context, match *models.MatchRecord) error

	// MarkStale flags a match as stale without changing its status.
	MarkStale(ctx context.Context, pairID string) error

	ListActive(ctx context.Context) ([]models.MatchRecord, error)
}

// DynamoMatchStore implements MatchStore on DynamoDB.
type DynamoMatchStore struct {
	Dynamo *DynamoService
	Table  string
}

func (ms *DynamoMatchStore) key(pairID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pairId": &types.AttributeValueMemberS{Value: pairID},
	}
}

func (ms *DynamoMatchStore) Create(ctx context.Context, match *models.MatchRecord) error {
	// A terminal record for the pair may be overwritten; an active one may
	// not. ConditionalCheckFailed therefore means exactly "active match
	// already exists".
	err := ms.Dynamo.PutItemWithCondition(ctx, ms.Table, match,
		"attribute_not_exists(pairId) OR #s <> :active",
		map[string]string{"#s": "status"},
		map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberS{Value: string(models.MatchStatusActive)},
		},
	)
	if errors.Is(err, ErrConflict) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create match for pair '%s': %w", match.PairID, err)
	}
	return nil
}

func (ms *DynamoMatchStore) GetByPair(ctx context.Context, pairID string) (*models.MatchRecord, error) {
	var match models.MatchRecord
	if err := ms.Dynamo.GetItem(ctx, ms.Table, ms.key(pairID), &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (ms *DynamoMatchStore) GetByMatchID(ctx context.Context, matchID string) (*models.MatchRecord, error) {
	var matches []models.MatchRecord
	err := ms.Dynamo.QueryIndex(ctx, ms.Table, models.MatchIDIndex,
		"matchId = :m",
		map[string]types.AttributeValue{
			":m": &types.AttributeValueMemberS{Value: matchID},
		},
		nil, 1, false, &matches,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up match '%s': %w", matchID, err)
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (ms *DynamoMatchStore) UpdateStatus(ctx context.Context, pairID string, status models.MatchStatus, endedBy, reason string) error {
	err := ms.Dynamo.UpdateItem(ctx, ms.Table,
		"SET #s = :s, endedBy = :by, endReason = :r",
		ms.key(pairID),
		map[string]types.AttributeValue{
			":s":  &types.AttributeValueMemberS{Value: string(status)},
			":by": &types.AttributeValueMemberS{Value: endedBy},
			":r":  &types.AttributeValueMemberS{Value: reason},
		},
		map[string]string{"#s": "status"},
		"",
	)
	if err != nil {
		return fmt.Errorf("failed to update status of pair '%s': %w", pairID, err)
	}
	return nil
}

func (ms *DynamoMatchStore) SaveEngagement(ctx context.Context, match *models.MatchRecord) error {
	interactions, err := attributevalue.Marshal(match.Interactions)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction counters: %w", err)
	}
	participants, err := attributevalue.Marshal(match.Participants)
	if err != nil {
		return fmt.Errorf("failed to marshal participant state: %w", err)
	}

	err = ms.Dynamo.UpdateItem(ctx, ms.Table,
		"SET interactions = :i, participants = :p, engagementScore = :e",
		ms.key(match.PairID),
		map[string]types.AttributeValue{
			":i": interactions,
			":p": participants,
			":e": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", match.EngagementScore)},
		},
		nil, "",
	)
	if err != nil {
		return fmt.Errorf("failed to save engagement for pair '%s': %w", match.PairID, err)
	}
	return nil
}

func (ms *DynamoMatchStore) MarkStale(ctx context.Context, pairID string) error {
	err := ms.Dynamo.UpdateItem(ctx, ms.Table,
		"SET stale = :t",
		ms.key(pairID),
		map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
		nil, "",
	)
	if err != nil {
		return fmt.Errorf("failed to mark pair '%s' stale: %w", pairID, err)
	}
	return nil
}

func (ms *DynamoMatchStore) ListActive(ctx context.Context) ([]models.MatchRecord, error) {
	var matches []models.MatchRecord
	err := ms.Dynamo.ScanAll(ctx, ms.Table,
		"#s = :active",
		map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberS{Value: string(models.MatchStatusActive)},
		},
		map[string]string{"#s": "status"},
		&matches,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active matches: %w", err)
	}
	return matches, nil
}
