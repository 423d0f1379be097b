package api

import (
	"fmt"

	"Babel/internal/market"
	"Babel/internal/registry"
)

// toCreateProject validates a create request and converts it for the registry.
// Empty content hashes are refused: a project must name its source material.
func (req CreateProjectRequest) toCreateProject() (registry.CreateProject, error) {
	hash, err := market.ParseHash(req.ContentHash)
	if err != nil {
		return registry.CreateProject{}, fmt.Errorf("content_hash: %w", err)
	}

	if hash == (market.Hash{}) {
		return registry.CreateProject{}, fmt.Errorf("%w: content_hash is zero", market.ErrInvalidArgument)
	}

	return registry.CreateProject{
		Owner:          market.Account(req.Owner),
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		ContentHash:    hash,
		Reward:         req.Reward,
		Deadline:       req.Deadline,
	}, nil
}

// parse validates a translation submission.
func (req SubmitTranslationRequest) parse() (market.Account, market.Hash, error) {
	translator := market.Account(req.Translator)
	if err := translator.Validate(); err != nil {
		return "", market.Hash{}, fmt.Errorf("translator: %w", err)
	}

	hash, err := market.ParseHash(req.TranslationHash)
	if err != nil {
		return "", market.Hash{}, fmt.Errorf("translation_hash: %w", err)
	}

	return translator, hash, nil
}

// accountParam validates an account taken from a path or body field.
func accountParam(field, raw string) (market.Account, error) {
	account := market.Account(raw)

	if err := account.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}

	return account, nil
}
