package rewards

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "rewards")
