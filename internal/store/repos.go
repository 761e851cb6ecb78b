package store

import (
	"context"

	"gorm.io/gorm"
)

// UserRepo reads and writes user accounts.
type UserRepo struct {
	db *gorm.DB
}

// Create inserts u. A duplicate username yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

// ByUsername finds the account with the given username.
func (r *UserRepo) ByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	return u, translate(err)
}

// ByID finds the account with the given identifier.
func (r *UserRepo) ByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return u, translate(err)
}

// BirthdayRepo reads and writes birthday records. Every query is scoped to an owner.
type BirthdayRepo struct {
	db *gorm.DB
}

// Create inserts b. A duplicate (owner, name) pair yields ErrConflict.
func (r *BirthdayRepo) Create(ctx context.Context, b *Birthday) error {
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

// Update saves the name and birthdate of an existing record.
func (r *BirthdayRepo) Update(ctx context.Context, b *Birthday) error {
	res := r.db.WithContext(ctx).
		Model(&Birthday{}).
		Where("id = ? AND user_id = ?", b.ID, b.UserID).
		Updates(map[string]any{
			"name":       b.Name,
			"birthdate":  b.Birthdate,
			"updated_at": b.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record id owned by userID.
func (r *BirthdayRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Birthday{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the record id owned by userID.
func (r *BirthdayRepo) Get(ctx context.Context, userID, id string) (Birthday, error) {
	var b Birthday
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&b).Error
	return b, translate(err)
}

// ByName returns the record of userID with exactly that name.
func (r *BirthdayRepo) ByName(ctx context.Context, userID, name string) (Birthday, error) {
	var b Birthday
	err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&b).Error
	return b, translate(err)
}

// List returns all records of userID ordered by creation time.
func (r *BirthdayRepo) List(ctx context.Context, userID string) ([]Birthday, error) {
	var out []Birthday
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, name ASC").Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}
