package db

import (
	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/model"
)

const visitCols = `id, greenhouse_id, visitor_name, purpose, visited_at, notes, created_at`

func (s *pgStore) CreateVisit(v model.VisitLog) (model.VisitLog, error) {
	var out model.VisitLog
	const q = `
	INSERT INTO visit_logs (greenhouse_id, visitor_name, purpose, visited_at, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, now())
	RETURNING ` + visitCols + `;`
	if err := s.db.Get(&out, q, v.GreenhouseID, v.VisitorName, v.Purpose, v.VisitedAt, v.Notes); err != nil {
		log.Error().Err(err).Msg("CreateVisit failed")
		return model.VisitLog{}, err
	}
	return out, nil
}

func (s *pgStore) GetVisit(id int) (model.VisitLog, error) {
	var out model.VisitLog
	err := s.db.Get(&out, `SELECT `+visitCols+` FROM visit_logs WHERE id = $1;`, id)
	return out, err
}

func (s *pgStore) ListVisits(greenhouseID int) ([]model.VisitLog, error) {
	var out []model.VisitLog
	var err error
	if greenhouseID > 0 {
		err = s.db.Select(&out, `SELECT `+visitCols+` FROM visit_logs WHERE greenhouse_id = $1 ORDER BY visited_at DESC;`, greenhouseID)
	} else {
		err = s.db.Select(&out, `SELECT `+visitCols+` FROM visit_logs ORDER BY visited_at DESC;`)
	}
	if err != nil {
		log.Error().Err(err).Msg("ListVisits failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateVisit(v model.VisitLog) (model.VisitLog, error) {
	var out model.VisitLog
	const q = `
	UPDATE visit_logs
	   SET visitor_name = $2, purpose = $3, visited_at = $4, notes = $5
	 WHERE id = $1
	RETURNING ` + visitCols + `;`
	if err := s.db.Get(&out, q, v.ID, v.VisitorName, v.Purpose, v.VisitedAt, v.Notes); err != nil {
		log.Error().Err(err).Int("visit_id", v.ID).Msg("UpdateVisit failed")
		return model.VisitLog{}, err
	}
	return out, nil
}

func (s *pgStore) DeleteVisit(id int) error {
	_, err := s.db.Exec(`DELETE FROM visit_logs WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("visit_id", id).Msg("DeleteVisit failed")
	}
	return err
}
