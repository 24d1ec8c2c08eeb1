package db

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/model"
)

const notificationCols = `id, category, title, message, is_read, zone_id, created_at`

func (s *pgStore) CreateNotification(n model.Notification) (model.Notification, error) {
	var out model.Notification
	const q = `
	INSERT INTO notifications (category, title, message, is_read, zone_id, created_at)
	VALUES ($1, $2, $3, false, $4, now())
	RETURNING ` + notificationCols + `;`
	if err := s.db.Get(&out, q, n.Category, n.Title, n.Message, n.ZoneID); err != nil {
		log.Error().Err(err).Str("category", n.Category).Msg("CreateNotification failed")
		return model.Notification{}, err
	}
	return out, nil
}

func (s *pgStore) ListNotifications(unreadOnly bool) ([]model.Notification, error) {
	var out []model.Notification
	var err error
	if unreadOnly {
		err = s.db.Select(&out, `SELECT `+notificationCols+` FROM notifications WHERE is_read = false ORDER BY created_at DESC;`)
	} else {
		err = s.db.Select(&out, `SELECT `+notificationCols+` FROM notifications ORDER BY created_at DESC;`)
	}
	if err != nil {
		log.Error().Err(err).Msg("ListNotifications failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) MarkNotificationRead(id int) error {
	res, err := s.db.Exec(`UPDATE notifications SET is_read = true WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("notification_id", id).Msg("MarkNotificationRead failed")
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
