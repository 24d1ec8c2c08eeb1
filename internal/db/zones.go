package db

import (
	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/model"
)

const zoneCols = `id, greenhouse_id, name, status, crop_id, humidity_min, humidity_max, created_at, updated_at`

func (s *pgStore) CreateZone(z model.Zone) (model.Zone, error) {
	var out model.Zone
	const q = `
	INSERT INTO zones (greenhouse_id, name, status, crop_id, humidity_min, humidity_max, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	RETURNING ` + zoneCols + `;`
	if err := s.db.Get(&out, q, z.GreenhouseID, z.Name, z.Status, z.CropID, z.HumidityMin, z.HumidityMax); err != nil {
		log.Error().Err(err).Msg("CreateZone failed")
		return model.Zone{}, err
	}
	return out, nil
}

func (s *pgStore) GetZone(id int) (model.Zone, error) {
	var out model.Zone
	err := s.db.Get(&out, `SELECT `+zoneCols+` FROM zones WHERE id = $1;`, id)
	return out, err
}

func (s *pgStore) ListZones(greenhouseID int) ([]model.Zone, error) {
	var out []model.Zone
	var err error
	if greenhouseID > 0 {
		err = s.db.Select(&out, `SELECT `+zoneCols+` FROM zones WHERE greenhouse_id = $1 ORDER BY id;`, greenhouseID)
	} else {
		err = s.db.Select(&out, `SELECT `+zoneCols+` FROM zones ORDER BY id;`)
	}
	if err != nil {
		log.Error().Err(err).Msg("ListZones failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateZone(z model.Zone) (model.Zone, error) {
	var out model.Zone
	const q = `
	UPDATE zones
	   SET name = $2, status = $3, crop_id = $4, humidity_min = $5, humidity_max = $6, updated_at = now()
	 WHERE id = $1
	RETURNING ` + zoneCols + `;`
	if err := s.db.Get(&out, q, z.ID, z.Name, z.Status, z.CropID, z.HumidityMin, z.HumidityMax); err != nil {
		log.Error().Err(err).Int("zone_id", z.ID).Msg("UpdateZone failed")
		return model.Zone{}, err
	}
	return out, nil
}

func (s *pgStore) DeleteZone(id int) error {
	_, err := s.db.Exec(`DELETE FROM zones WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("zone_id", id).Msg("DeleteZone failed")
	}
	return err
}
