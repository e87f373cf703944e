package log

import "log/slog"

func FlowID[T ~string](id T) slog.Attr {
	return slog.String("flow_id", string(id))
}

func Step(index int) slog.Attr {
	return slog.Int("step", index)
}

func Target(index int) slog.Attr {
	return slog.Int("target", index)
}

func Direction[T ~string](dir T) slog.Attr {
	return slog.String("direction", string(dir))
}

func Reason[T ~string](reason T) slog.Attr {
	return slog.String("reason", string(reason))
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}

func ErrorString(msg string) slog.Attr {
	return slog.String("error", msg)
}
