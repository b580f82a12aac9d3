package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed parameter struct populated once at Engine
// initialization. Field names track the recognized
// parameter names of the system_parameters table.
type Config struct {
	DailyWorkHours float64

	ShiftStartTime string
	ShiftEndTime   string

	PlannedStaff2F int
	PlannedStaff3F int
	PlannedStaff4F int

	StaffShortageProbability   float64
	StaffShortageReductionMin int
	StaffShortageReductionMax int

	StationStartupTimeMinutes float64

	PickingBaseTimeRepack   float64
	PickingBaseTimeNoRepack float64
	RepackAdditionalTime    float64

	MinTaskDuration float64
	MaxTaskDuration float64

	ReceivingTimePerPiece   float64
	ReceivingCompletionDays int
	ReceivingBulkQtyThreshold int
	UrgentItemCodes         []string

	MaxPartcustidsPerStation int
	TimeBufferMinutes       float64

	SkillImpactMultiplier float64

	TaskInterruptionAllowed bool

	ExceptionProbabilityShipping  float64
	ExceptionProbabilityReceiving float64
	ExceptionHandlingTimeAvg      float64
	ExceptionHandlingTimeStd      float64

	LeaderCount int

	EscalationTimeThreshold           time.Duration
	CriticalExceptionImmediateEscalation bool

	OvertimeEnabled                   bool
	MaxOvertimeHours                  float64
	OvertimeEndTime                   string
	OvertimeEvaluationIntervalMinutes int

	UrgentTransCodes      []string
	NormalTransCodes      []string
	SubWarehouseRoutes    []string

	ReceivingNormalPriority   string
	ReceivingUrgentPriority   string
	ReceivingCriticalPriority string

	RandomSeed int64
}

// Default builds the Config with its built-in defaults, before any override from the parameter store or environment.
func Default() Config {
	return Config{
		DailyWorkHours:            8,
		ShiftStartTime:            "08:00",
		ShiftEndTime:              "17:00",
		PlannedStaff2F:            4,
		PlannedStaff3F:            6,
		PlannedStaff4F:            4,
		StaffShortageProbability:  0.1,
		StaffShortageReductionMin: 1,
		StaffShortageReductionMax: 2,
		StationStartupTimeMinutes: 3,
		PickingBaseTimeRepack:     8,
		PickingBaseTimeNoRepack:   5,
		RepackAdditionalTime:      3,
		MinTaskDuration:           2,
		MaxTaskDuration:           60,
		ReceivingTimePerPiece:     0.5,
		ReceivingCompletionDays:   3,
		ReceivingBulkQtyThreshold: 500,
		UrgentItemCodes:           nil,
		MaxPartcustidsPerStation:  12,
		TimeBufferMinutes:         15,
		SkillImpactMultiplier:     0.1,
		TaskInterruptionAllowed:   true,
		ExceptionProbabilityShipping:  0.02,
		ExceptionProbabilityReceiving: 0.015,
		ExceptionHandlingTimeAvg:      20,
		ExceptionHandlingTimeStd:      8,
		LeaderCount:               2,
		EscalationTimeThreshold:   20 * time.Minute,
		CriticalExceptionImmediateEscalation: true,
		OvertimeEnabled:           true,
		MaxOvertimeHours:          4,
		OvertimeEndTime:           "22:00",
		OvertimeEvaluationIntervalMinutes: 120,
		UrgentTransCodes:          []string{"URG", "RUSH"},
		NormalTransCodes:          []string{"STD", "NRM"},
		SubWarehouseRoutes:        []string{"SDTC", "SDHN"},
		ReceivingNormalPriority:   "NORMAL",
		ReceivingUrgentPriority:   "URGENT",
		ReceivingCriticalPriority: "CRITICAL",
		RandomSeed:                0,
	}
}

// Bind layers the ingested system_parameters rows, then environment
// overrides (prefix WAREHOUSESIM_), onto the Config defaults using viper.
// Only random_seed and overtime_enabled are read from the environment.
// Name-based lookups stay at this intake boundary; everything downstream
// reads the typed struct.
func Bind(store *Store) Config {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("WAREHOUSESIM")
	v.AutomaticEnv()

	cfg.DailyWorkHours = store.Float("daily_work_hours", cfg.DailyWorkHours)
	cfg.ShiftStartTime = store.String("shift_start_time", cfg.ShiftStartTime)
	cfg.ShiftEndTime = store.String("shift_end_time", cfg.ShiftEndTime)
	cfg.PlannedStaff2F = store.Int("planned_staff_2f", cfg.PlannedStaff2F)
	cfg.PlannedStaff3F = store.Int("planned_staff_3f", cfg.PlannedStaff3F)
	cfg.PlannedStaff4F = store.Int("planned_staff_4f", cfg.PlannedStaff4F)
	cfg.StaffShortageProbability = store.Float("staff_shortage_probability", cfg.StaffShortageProbability)
	cfg.StaffShortageReductionMin = store.Int("staff_shortage_reduction_min", cfg.StaffShortageReductionMin)
	cfg.StaffShortageReductionMax = store.Int("staff_shortage_reduction_max", cfg.StaffShortageReductionMax)
	// station_startup_time_minutes is stored in seconds in the raw file;
	// convert once here.
	cfg.StationStartupTimeMinutes = store.Float("station_startup_time_minutes", cfg.StationStartupTimeMinutes*60) / 60
	cfg.PickingBaseTimeRepack = store.Float("picking_base_time_repack", cfg.PickingBaseTimeRepack)
	cfg.PickingBaseTimeNoRepack = store.Float("picking_base_time_no_repack", cfg.PickingBaseTimeNoRepack)
	cfg.RepackAdditionalTime = store.Float("repack_additional_time", cfg.RepackAdditionalTime)
	cfg.MinTaskDuration = store.Float("min_task_duration", cfg.MinTaskDuration)
	cfg.MaxTaskDuration = store.Float("max_task_duration", cfg.MaxTaskDuration)
	cfg.ReceivingTimePerPiece = store.Float("receiving_time_per_piece", cfg.ReceivingTimePerPiece)
	cfg.ReceivingCompletionDays = store.Int("receiving_completion_days", cfg.ReceivingCompletionDays)
	cfg.MaxPartcustidsPerStation = store.Int("max_partcustids_per_station", cfg.MaxPartcustidsPerStation)
	cfg.TimeBufferMinutes = store.Float("time_buffer_minutes", cfg.TimeBufferMinutes)
	cfg.SkillImpactMultiplier = store.Float("skill_impact_multiplier", cfg.SkillImpactMultiplier)
	cfg.TaskInterruptionAllowed = store.Bool("task_interruption_allowed", cfg.TaskInterruptionAllowed)
	cfg.ExceptionProbabilityShipping = store.Float("exception_probability_shipping", cfg.ExceptionProbabilityShipping)
	cfg.ExceptionProbabilityReceiving = store.Float("exception_probability_receiving", cfg.ExceptionProbabilityReceiving)
	cfg.ExceptionHandlingTimeAvg = store.Float("exception_handling_time_avg", cfg.ExceptionHandlingTimeAvg)
	cfg.ExceptionHandlingTimeStd = store.Float("exception_handling_time_std", cfg.ExceptionHandlingTimeStd)
	cfg.LeaderCount = store.Int("leader_count", cfg.LeaderCount)
	cfg.EscalationTimeThreshold = time.Duration(store.Float("escalation_time_threshold", cfg.EscalationTimeThreshold.Minutes())) * time.Minute
	cfg.CriticalExceptionImmediateEscalation = store.Bool("critical_exception_immediate_escalation", cfg.CriticalExceptionImmediateEscalation)
	cfg.OvertimeEnabled = store.Bool("overtime_enabled", cfg.OvertimeEnabled)
	cfg.MaxOvertimeHours = store.Float("max_overtime_hours", cfg.MaxOvertimeHours)
	cfg.OvertimeEndTime = store.String("overtime_end_time", cfg.OvertimeEndTime)
	cfg.OvertimeEvaluationIntervalMinutes = store.Int("overtime_evaluation_interval", cfg.OvertimeEvaluationIntervalMinutes)
	cfg.ReceivingNormalPriority = store.String("receiving_normal_priority", cfg.ReceivingNormalPriority)
	cfg.ReceivingUrgentPriority = store.String("receiving_urgent_priority", cfg.ReceivingUrgentPriority)
	cfg.ReceivingCriticalPriority = store.String("receiving_critical_priority", cfg.ReceivingCriticalPriority)

	if raw := store.String("urgent_transcd_list", ""); raw != "" {
		cfg.UrgentTransCodes = splitCSV(raw)
	}
	if raw := store.String("normal_transcd_list", ""); raw != "" {
		cfg.NormalTransCodes = splitCSV(raw)
	}
	if raw := store.String("sub_warehouse_routes", ""); raw != "" {
		cfg.SubWarehouseRoutes = splitCSV(raw)
	}

	if v.IsSet("random_seed") {
		cfg.RandomSeed = v.GetInt64("random_seed")
	}
	if v.IsSet("overtime_enabled") {
		cfg.OvertimeEnabled = v.GetBool("overtime_enabled")
	}

	return cfg
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
