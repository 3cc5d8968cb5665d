package poseRepository

const (
	queryCreateJudgment = `
		INSERT INTO pose_judgments (
			id,
			image_digest,
			closest_hand,
			distance,
			accepted,
			archive_url,
			created_at
		) VALUES (
			:id,
			:image_digest,
			:closest_hand,
			:distance,
			:accepted,
			:archive_url,
			:created_at
		)
	`

	queryGetRecentJudgments = `
		SELECT
			id,
			image_digest,
			closest_hand,
			distance,
			accepted,
			archive_url,
			created_at
		FROM pose_judgments
		ORDER BY created_at DESC
		LIMIT :limit
	`
)
