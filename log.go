package rdiff

import "github.com/sirupsen/logrus"

// logger is the package-level diagnostic logger. It defaults to logrus's
// standard logger (silent unless the host application configures it) and
// can be overridden per-Differ via DifferOptions.Logger.
var logger *logrus.Logger = logrus.StandardLogger()
