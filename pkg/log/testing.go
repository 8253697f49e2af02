package log

// TB is the subset of testing.TB the Testing logger needs.
type TB interface {
	Errorf(string, ...interface{})
	Logf(string, ...interface{})
	Helper()
}

// Testing routes log lines to a test. Debug lines are logged, Error lines are
// only logged as well so expected failures do not fail the test.
type Testing struct {
	TB
	Tags []interface{}
}

func (l *Testing) Debug(m string, s ...interface{}) {
	l.Helper()
	l.Logf("%s", tfmt("DEB ", m, s, l.Tags))
}

func (l *Testing) Error(m string, s ...interface{}) {
	l.Helper()
	l.Logf("%s", tfmt("ERR ", m, s, l.Tags))
}

func (l *Testing) With(tags ...interface{}) Logger {
	return &Testing{TB: l.TB, Tags: joinTags(tags, l.Tags)}
}
