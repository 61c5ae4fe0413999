package dto

import "github.com/go-playground/validator/v10"

// Validate instancia compartida del validador de structs para los request DTO.
// Los handlers la invocan tras el BodyParser; las reglas viven en los tags `validate`.
var Validate = validator.New(validator.WithRequiredStructEnabled())
