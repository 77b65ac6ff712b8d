package services

import (
	"context"
	"fmt"

	"sparkd_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SwipeStore owns swipe records. Records are immutable except for the two
// narrow mutations below.
type SwipeStore interface {
	Get(ctx context.Context, swipeID string) (*models.SwipeRecord, error)
	Put(ctx context.Context, swipe *models.SwipeRecord) error

	// ActiveSwipe returns the active record for the directed (from, to) pair,
	// or nil when none exists.
	ActiveSwipe(ctx context.Context, fromUserID, toUserID string) (*models.SwipeRecord, error)

	// ActiveTargets returns the set of users the given user holds an active
	// swipe on.
	ActiveTargets(ctx context.Context, fromUserID string) (map[string]bool, error)

	// LatestActive returns the user's most recent active swipe, or nil.
	LatestActive(ctx context.Context, fromUserID string) (*models.SwipeRecord, error)

	// LinkMatch sets the swipe's match linkage. The link is set at most once
	// and never cleared.
	LinkMatch(ctx context.Context, swipeID, matchID string) error

	// Deactivate flips the swipe's active flag off.
	Deactivate(ctx context.Context, swipeID string) error
}

// DynamoSwipeStore implements SwipeStore on DynamoDB.
type DynamoSwipeStore struct {
	Dynamo *DynamoService
	Table  string
}

func (ss *DynamoSwipeStore) key(swipeID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"swipeId": &types.AttributeValueMemberS{Value: swipeID},
	}
}

func (ss *DynamoSwipeStore) Get(ctx context.Context, swipeID string) (*models.SwipeRecord, error) {
	var swipe models.SwipeRecord
	if err := ss.Dynamo.GetItem(ctx, ss.Table, ss.key(swipeID), &swipe); err != nil {
		return nil, err
	}
	return &swipe, nil
}

func (ss *DynamoSwipeStore) Put(ctx context.Context, swipe *models.SwipeRecord) error {
	return ss.Dynamo.PutItem(ctx, ss.Table, swipe)
}

func (ss *DynamoSwipeStore) ActiveSwipe(ctx context.Context, fromUserID, toUserID string) (*models.SwipeRecord, error) {
	var swipes []models.SwipeRecord
	err := ss.Dynamo.QueryIndex(ctx, ss.Table, models.SwipeFromToIndex,
		"fromUserId = :from AND toUserId = :to",
		map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: fromUserID},
			":to":   &types.AttributeValueMemberS{Value: toUserID},
		},
		nil, 25, true, &swipes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active swipe %s -> %s: %w", fromUserID, toUserID, err)
	}
	for i := range swipes {
		if swipes[i].Active {
			return &swipes[i], nil
		}
	}
	return nil, nil
}

func (ss *DynamoSwipeStore) ActiveTargets(ctx context.Context, fromUserID string) (map[string]bool, error) {
	var swipes []models.SwipeRecord
	err := ss.Dynamo.QueryIndex(ctx, ss.Table, models.SwipeFromIndex,
		"fromUserId = :from",
		map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: fromUserID},
		},
		nil, 1000, true, &swipes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list swiped targets for '%s': %w", fromUserID, err)
	}
	targets := make(map[string]bool, len(swipes))
	for i := range swipes {
		if swipes[i].Active {
			targets[swipes[i].ToUserID] = true
		}
	}
	return targets, nil
}

func (ss *DynamoSwipeStore) LatestActive(ctx context.Context, fromUserID string) (*models.SwipeRecord, error) {
	var swipes []models.SwipeRecord
	err := ss.Dynamo.QueryIndex(ctx, ss.Table, models.SwipeFromIndex,
		"fromUserId = :from",
		map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: fromUserID},
		},
		nil, 50, true, &swipes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up latest swipe for '%s': %w", fromUserID, err)
	}
	for i := range swipes {
		if swipes[i].Active {
			return &swipes[i], nil
		}
	}
	return nil, nil
}

func (ss *DynamoSwipeStore) LinkMatch(ctx context.Context, swipeID, matchID string) error {
	err := ss.Dynamo.UpdateItem(ctx, ss.Table,
		"SET matchId = :m",
		ss.key(swipeID),
		map[string]types.AttributeValue{
			":m": &types.AttributeValueMemberS{Value: matchID},
		},
		nil,
		"attribute_not_exists(matchId)",
	)
	if err == ErrConflict {
		// Linked by the concurrent path already; the link is idempotent.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to link swipe '%s' to match '%s': %w", swipeID, matchID, err)
	}
	return nil
}

func (ss *DynamoSwipeStore) Deactivate(ctx context.Context, swipeID string) error {
	err := ss.Dynamo.UpdateItem(ctx, ss.Table,
		"SET active = :f",
		ss.key(swipeID),
		map[string]types.AttributeValue{
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
		nil, "",
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate swipe '%s': %w", swipeID, err)
	}
	return nil
}
