package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestConfigureSetsLevelAndFormatter(t *testing.T) {
	defer Configure(Config{})

	Configure(Config{Level: "debug", Format: "json"})
	require.Equal(t, logrus.DebugLevel, Logger.GetLevel())
	_, isJSON := Logger.Formatter.(*logrus.JSONFormatter)
	require.True(t, isJSON)

	Configure(Config{Level: "warn", Format: "text"})
	require.Equal(t, logrus.WarnLevel, Logger.GetLevel())
	_, isText := Logger.Formatter.(*logrus.TextFormatter)
	require.True(t, isText)
}

func TestConfigureDefaultsToInfoAndText(t *testing.T) {
	defer Configure(Config{})

	Configure(Config{})
	require.Equal(t, logrus.InfoLevel, Logger.GetLevel())
	_, isText := Logger.Formatter.(*logrus.TextFormatter)
	require.True(t, isText)
}

func TestOutputSplitterRoutesByLevel(t *testing.T) {
	s := OutputSplitter{}
	n, err := s.Write([]byte("level=info msg=hello\n"))
	require.NoError(t, err)
	require.Greater(t, n, 0)
}

func TestContextLoggerIsImmutable(t *testing.T) {
	base := NewContextLogger()
	withA := base.WithField("a", 1)
	withAB := withA.WithField("b", 2)

	require.Len(t, base.fields, 0)
	require.Len(t, withA.fields, 1)
	require.Len(t, withAB.fields, 2)
}
