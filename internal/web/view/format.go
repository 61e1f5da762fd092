// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"html/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
)

var (
	printer = message.NewPrinter(language.AmericanEnglish)
	titler  = cases.Title(language.AmericanEnglish)
)

func funcs() template.FuncMap {
	return template.FuncMap{
		"usd":        USD,
		"number":     Number,
		"title":      Title,
		"fieldError": FieldError,
	}
}

// USD formats an amount as US dollars with grouping, e.g. "$25,990.00".
func USD(amount float64) string {
	return printer.Sprintf("$%.2f", amount)
}

// Number formats an integer with US grouping, e.g. "74,750".
func Number(value int) string {
	return printer.Sprintf("%d", value)
}

// Title capitalizes a classification name for display, e.g. "suv" -> "Suv".
func Title(value string) string {
	return titler.String(value)
}

// FieldError returns the first message recorded for field, or "".
func FieldError(errors []apperr.FieldError, field string) string {
	for _, fieldError := range errors {
		if fieldError.Field == field {
			return fieldError.Message
		}
	}
	return ""
}
