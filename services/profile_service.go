package services

import (
	"context"
	"fmt"

	"sparkd_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProfileStore is the narrow contract against the user-management
// collaborator's profile data. The matching core never writes anything beyond
// rating, lifetime stats and the block list.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateRating(ctx context.Context, userID string, rating int) error
	IncrementStats(ctx context.Context, userID string, deltas models.StatDeltas) error
	AddToBlockList(ctx context.Context, userID, otherID string) error

	// ListCandidates returns every visible profile except the requester's
	// own. The recommendation pipeline applies all further filtering.
	ListCandidates(ctx context.Context, excludeUserID string) ([]models.UserProfile, error)
}

// ProfileService implements ProfileStore on DynamoDB.
type ProfileService struct {
	Dynamo *DynamoService
	Table  string
}

func (ps *ProfileService) key(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

func (ps *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := ps.Dynamo.GetItem(ctx, ps.Table, ps.key(userID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (ps *ProfileService) UpdateRating(ctx context.Context, userID string, rating int) error {
	err := ps.Dynamo.UpdateItem(ctx, ps.Table,
		"SET rating = :r",
		ps.key(userID),
		map[string]types.AttributeValue{
			":r": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", rating)},
		},
		nil, "",
	)
	if err != nil {
		return fmt.Errorf("failed to update rating for '%s': %w", userID, err)
	}
	return nil
}

func (ps *ProfileService) IncrementStats(ctx context.Context, userID string, deltas models.StatDeltas) error {
	fields := []struct {
		attr  string
		delta int
	}{
		{"totalSwipes", deltas.Swipes},
		{"totalLikes", deltas.Likes},
		{"totalPasses", deltas.Passes},
		{"totalSuperlikes", deltas.Superlikes},
		{"totalMatches", deltas.Matches},
	}

	expr := ""
	values := map[string]types.AttributeValue{}
	for i, f := range fields {
		if f.delta == 0 {
			continue
		}
		placeholder := fmt.Sprintf(":d%d", i)
		if expr == "" {
			expr = "ADD "
		} else {
			expr += ", "
		}
		expr += fmt.Sprintf("%s %s", f.attr, placeholder)
		values[placeholder] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", f.delta)}
	}
	if expr == "" {
		return nil
	}

	if err := ps.Dynamo.UpdateItem(ctx, ps.Table, expr, ps.key(userID), values, nil, ""); err != nil {
		return fmt.Errorf("failed to increment stats for '%s': %w", userID, err)
	}
	return nil
}

// AddToBlockList appends a one-way block relation onto the blocking user's
// profile.
func (ps *ProfileService) AddToBlockList(ctx context.Context, userID, otherID string) error {
	err := ps.Dynamo.UpdateItem(ctx, ps.Table,
		"SET blockedUsers = list_append(if_not_exists(blockedUsers, :empty), :new)",
		ps.key(userID),
		map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":new": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberS{Value: otherID},
			}},
		},
		nil, "",
	)
	if err != nil {
		return fmt.Errorf("failed to add '%s' to block list of '%s': %w", otherID, userID, err)
	}
	return nil
}

func (ps *ProfileService) ListCandidates(ctx context.Context, excludeUserID string) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := ps.Dynamo.ScanAll(ctx, ps.Table,
		"userId <> :self",
		map[string]types.AttributeValue{
			":self": &types.AttributeValueMemberS{Value: excludeUserID},
		},
		nil,
		&profiles,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate profiles: %w", err)
	}
	return profiles, nil
}
