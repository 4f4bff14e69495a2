// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and turns failures into a
// *ValidationError keyed by form field name.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe.Field(), fe.Tag(), fe.Param())
	}
	return &ValidationError{Fields: fields}
}

// fieldLabels names form fields in messages.
var fieldLabels = map[string]string{
	"email":    "Email",
	"password": "Senha",
	"name":     "Nome",
	"phone":    "Telefone",
	"message":  "Mensagem",
	"token":    "Token",
}

func fieldMessage(field, tag, param string) string {
	label, ok := fieldLabels[field]
	if !ok {
		label = strings.ReplaceAll(field, "_", " ")
	}
	switch tag {
	case "required":
		return label + " é obrigatório"
	case "email":
		return label + " deve ser um endereço válido"
	case "min":
		return label + " deve ter pelo menos " + param + " caracteres"
	case "max":
		return label + " deve ter no máximo " + param + " caracteres"
	default:
		return label + " é inválido"
	}
}
