package db

import (
	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/model"
)

const cropCols = `id, name, variety, description, image_url, created_at, updated_at`

func (s *pgStore) CreateCrop(c model.Crop) (model.Crop, error) {
	var out model.Crop
	const q = `
	INSERT INTO crops (name, variety, description, image_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	RETURNING ` + cropCols + `;`
	if err := s.db.Get(&out, q, c.Name, c.Variety, c.Description, c.ImageURL); err != nil {
		log.Error().Err(err).Msg("CreateCrop failed")
		return model.Crop{}, err
	}
	return out, nil
}

func (s *pgStore) GetCrop(id int) (model.Crop, error) {
	var out model.Crop
	err := s.db.Get(&out, `SELECT `+cropCols+` FROM crops WHERE id = $1;`, id)
	return out, err
}

func (s *pgStore) ListCrops() ([]model.Crop, error) {
	var out []model.Crop
	if err := s.db.Select(&out, `SELECT `+cropCols+` FROM crops ORDER BY id;`); err != nil {
		log.Error().Err(err).Msg("ListCrops failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateCrop(c model.Crop) (model.Crop, error) {
	var out model.Crop
	const q = `
	UPDATE crops
	   SET name = $2, variety = $3, description = $4, updated_at = now()
	 WHERE id = $1
	RETURNING ` + cropCols + `;`
	if err := s.db.Get(&out, q, c.ID, c.Name, c.Variety, c.Description); err != nil {
		log.Error().Err(err).Int("crop_id", c.ID).Msg("UpdateCrop failed")
		return model.Crop{}, err
	}
	return out, nil
}

func (s *pgStore) DeleteCrop(id int) error {
	_, err := s.db.Exec(`DELETE FROM crops WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("crop_id", id).Msg("DeleteCrop failed")
	}
	return err
}

func (s *pgStore) SetCropImage(id int, url string) error {
	_, err := s.db.Exec(`UPDATE crops SET image_url = $2, updated_at = now() WHERE id = $1;`, id, url)
	if err != nil {
		log.Error().Err(err).Int("crop_id", id).Msg("SetCropImage failed")
	}
	return err
}
