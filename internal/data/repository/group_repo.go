package repository

import (
	"context"
	"fmt"

	"event-ticketing/internal/data/entity"
	"event-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type GroupRepository interface {
	Create(ctx context.Context, group *entity.Group) error
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*entity.Group, error)

	// EnrollMember is an insert-if-absent keyed on (group_id, user_id);
	// enrolling twice leaves exactly one membership row.
	EnrollMember(ctx context.Context, member *entity.GroupMember) error
	CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error)
}

type groupRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGroupRepository(db database.PgxIface, log *zap.Logger) GroupRepository {
	return &groupRepository{
		db:  db,
		log: log.With(zap.String("repository", "group")),
	}
}

func (r *groupRepository) Create(ctx context.Context, group *entity.Group) error {
	query := `
		INSERT INTO groups (id, event_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		group.ID,
		group.EventID,
		group.Name,
		group.CreatedAt,
		group.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create group",
			zap.Error(err),
			zap.String("event_id", group.EventID.String()),
		)
		return fmt.Errorf("create group for event %s: %w", group.EventID.String(), err)
	}

	return nil
}

func (r *groupRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) (*entity.Group, error) {
	query := `
		SELECT id, event_id, name, created_at, updated_at
		FROM groups
		WHERE event_id = $1
	`

	var group entity.Group
	err := r.db.QueryRow(ctx, query, eventID).Scan(
		&group.ID,
		&group.EventID,
		&group.Name,
		&group.CreatedAt,
		&group.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find group by event ID",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find group for event %s: %w", eventID.String(), err)
	}

	return &group, nil
}

func (r *groupRepository) EnrollMember(ctx context.Context, member *entity.GroupMember) error {
	query := `
		INSERT INTO group_members (id, group_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		member.ID,
		member.GroupID,
		member.UserID,
		member.Role,
		member.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to enroll group member",
			zap.Error(err),
			zap.String("group_id", member.GroupID.String()),
			zap.String("user_id", member.UserID.String()),
		)
		return fmt.Errorf("enroll member %s into group %s: %w",
			member.UserID.String(), member.GroupID.String(), err)
	}

	return nil
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM group_members WHERE group_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, groupID).Scan(&count); err != nil {
		r.log.Error("Failed to count group members",
			zap.Error(err),
			zap.String("group_id", groupID.String()),
		)
		return 0, fmt.Errorf("count members of group %s: %w", groupID.String(), err)
	}

	return count, nil
}
