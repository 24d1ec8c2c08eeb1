package db

import (
	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/model"
)

const greenhouseCols = `id, name, location, description, image_url, created_at, updated_at`

func (s *pgStore) CreateGreenhouse(g model.Greenhouse) (model.Greenhouse, error) {
	var out model.Greenhouse
	const q = `
	INSERT INTO greenhouses (name, location, description, image_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	RETURNING ` + greenhouseCols + `;`
	if err := s.db.Get(&out, q, g.Name, g.Location, g.Description, g.ImageURL); err != nil {
		log.Error().Err(err).Msg("CreateGreenhouse failed")
		return model.Greenhouse{}, err
	}
	return out, nil
}

func (s *pgStore) GetGreenhouse(id int) (model.Greenhouse, error) {
	var out model.Greenhouse
	err := s.db.Get(&out, `SELECT `+greenhouseCols+` FROM greenhouses WHERE id = $1;`, id)
	return out, err
}

func (s *pgStore) ListGreenhouses() ([]model.Greenhouse, error) {
	var out []model.Greenhouse
	if err := s.db.Select(&out, `SELECT `+greenhouseCols+` FROM greenhouses ORDER BY id;`); err != nil {
		log.Error().Err(err).Msg("ListGreenhouses failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateGreenhouse(g model.Greenhouse) (model.Greenhouse, error) {
	var out model.Greenhouse
	const q = `
	UPDATE greenhouses
	   SET name = $2, location = $3, description = $4, updated_at = now()
	 WHERE id = $1
	RETURNING ` + greenhouseCols + `;`
	if err := s.db.Get(&out, q, g.ID, g.Name, g.Location, g.Description); err != nil {
		log.Error().Err(err).Int("greenhouse_id", g.ID).Msg("UpdateGreenhouse failed")
		return model.Greenhouse{}, err
	}
	return out, nil
}

func (s *pgStore) DeleteGreenhouse(id int) error {
	_, err := s.db.Exec(`DELETE FROM greenhouses WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("greenhouse_id", id).Msg("DeleteGreenhouse failed")
	}
	return err
}

func (s *pgStore) SetGreenhouseImage(id int, url string) error {
	_, err := s.db.Exec(`UPDATE greenhouses SET image_url = $2, updated_at = now() WHERE id = $1;`, id, url)
	if err != nil {
		log.Error().Err(err).Int("greenhouse_id", id).Msg("SetGreenhouseImage failed")
	}
	return err
}
