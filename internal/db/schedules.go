package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/model"
)

const scheduleCols = `id, kind, zone_id, starts_at, ends_at, mode, description, active, auto, created_at, updated_at`

func (s *pgStore) ListSchedules(kind string) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `SELECT ` + scheduleCols + ` FROM schedules WHERE kind = $1 ORDER BY starts_at;`
	if err := s.db.Select(&out, q, kind); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("ListSchedules failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListZoneSchedules(kind string, zoneID int) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `SELECT ` + scheduleCols + ` FROM schedules WHERE kind = $1 AND zone_id = $2 ORDER BY starts_at;`
	if err := s.db.Select(&out, q, kind, zoneID); err != nil {
		log.Error().Err(err).Str("kind", kind).Int("zone_id", zoneID).Msg("ListZoneSchedules failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListSchedulesAt(kind string, at time.Time) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `SELECT ` + scheduleCols + ` FROM schedules WHERE kind = $1 AND starts_at <= $2 AND ends_at >= $2;`
	if err := s.db.Select(&out, q, kind, at.UTC()); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("ListSchedulesAt failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListActiveAutoSchedules(zoneID int) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `SELECT ` + scheduleCols + ` FROM schedules WHERE zone_id = $1 AND auto = true AND active = true;`
	if err := s.db.Select(&out, q, zoneID); err != nil {
		log.Error().Err(err).Int("zone_id", zoneID).Msg("ListActiveAutoSchedules failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) GetSchedule(kind string, id int) (model.Schedule, error) {
	var out model.Schedule
	err := s.db.Get(&out, `SELECT `+scheduleCols+` FROM schedules WHERE kind = $1 AND id = $2;`, kind, id)
	return out, err
}

// CreateScheduleWithHistory writes the schedule and its companion history
// entry in a single transaction so a failed history write cannot leave an
// orphaned schedule behind.
func (s *pgStore) CreateScheduleWithHistory(sched model.Schedule, h model.ScheduleHistoryEntry) (model.Schedule, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return model.Schedule{}, err
	}
	defer tx.Rollback()

	var out model.Schedule
	const insertSchedule = `
	INSERT INTO schedules (kind, zone_id, starts_at, ends_at, mode, description, active, auto, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	RETURNING ` + scheduleCols + `;`
	if err := tx.Get(&out, insertSchedule,
		sched.Kind, sched.ZoneID, sched.StartsAt, sched.EndsAt,
		sched.Mode, sched.Description, sched.Active, sched.Auto); err != nil {
		log.Error().Err(err).Msg("CreateScheduleWithHistory: schedule insert failed")
		return model.Schedule{}, err
	}

	const insertEntry = `
	INSERT INTO schedule_history (schedule_id, zone_id, activated_at, duration_minutes, created_at)
	VALUES ($1, $2, $3, $4, now());`
	if _, err := tx.Exec(insertEntry, out.ID, h.ZoneID, h.ActivatedAt, h.DurationMinutes); err != nil {
		log.Error().Err(err).Int("schedule_id", out.ID).Msg("CreateScheduleWithHistory: history insert failed")
		return model.Schedule{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Schedule{}, err
	}
	return out, nil
}

func (s *pgStore) UpdateSchedule(sched model.Schedule) (model.Schedule, error) {
	var out model.Schedule
	const q = `
	UPDATE schedules
	   SET zone_id = $2, starts_at = $3, ends_at = $4, mode = $5, description = $6, updated_at = now()
	 WHERE id = $1
	RETURNING ` + scheduleCols + `;`
	if err := s.db.Get(&out, q, sched.ID, sched.ZoneID, sched.StartsAt, sched.EndsAt, sched.Mode, sched.Description); err != nil {
		log.Error().Err(err).Int("schedule_id", sched.ID).Msg("UpdateSchedule failed")
		return model.Schedule{}, err
	}
	return out, nil
}

func (s *pgStore) DeleteSchedule(kind string, id int, cascadeHistory bool) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if cascadeHistory {
		if _, err := tx.Exec(`DELETE FROM schedule_history WHERE schedule_id = $1;`, id); err != nil {
			log.Error().Err(err).Int("schedule_id", id).Msg("DeleteSchedule: history cascade failed")
			return err
		}
	}
	if _, err := tx.Exec(`DELETE FROM schedules WHERE kind = $1 AND id = $2;`, kind, id); err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("DeleteSchedule failed")
		return err
	}
	return tx.Commit()
}

func (s *pgStore) SetScheduleActive(kind string, id int, active bool) error {
	_, err := s.db.Exec(`UPDATE schedules SET active = $3, updated_at = now() WHERE kind = $1 AND id = $2;`, kind, id, active)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("SetScheduleActive failed")
	}
	return err
}

// DeactivateSchedule flips active off and clamps the window end, used when a
// humidity reading stops an automatic run early.
func (s *pgStore) DeactivateSchedule(id int, endsAt time.Time) error {
	_, err := s.db.Exec(`UPDATE schedules SET active = false, ends_at = $2, updated_at = now() WHERE id = $1;`, id, endsAt)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("DeactivateSchedule failed")
	}
	return err
}

func (s *pgStore) CreateHistoryEntry(h model.ScheduleHistoryEntry) error {
	const q = `
	INSERT INTO schedule_history (schedule_id, zone_id, activated_at, duration_minutes, created_at)
	VALUES ($1, $2, $3, $4, now());`
	_, err := s.db.Exec(q, h.ScheduleID, h.ZoneID, h.ActivatedAt, h.DurationMinutes)
	if err != nil {
		log.Error().Err(err).Msg("CreateHistoryEntry failed")
	}
	return err
}

func (s *pgStore) ListHistory(scheduleID int) ([]model.ScheduleHistoryEntry, error) {
	var out []model.ScheduleHistoryEntry
	const q = `
	SELECT id, schedule_id, zone_id, activated_at, duration_minutes, created_at
	  FROM schedule_history
	 WHERE schedule_id = $1
	 ORDER BY activated_at;`
	if err := s.db.Select(&out, q, scheduleID); err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("ListHistory failed")
		return nil, err
	}
	return out, nil
}
