package model

import "github.com/lottopro/backend/internal/util"

var drawValidator = util.NewValidator()
