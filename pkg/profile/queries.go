package profile

// UserQuery selects the signed-in user. Row permissions restrict it to one row.
const UserQuery = `{
  user {
    id
    login
    attrs
  }
}`

// DashboardQuery selects every row set the dashboard is computed from.
const DashboardQuery = `query Dashboard($userId: Int!) {
  xp: transaction(
    where: { userId: { _eq: $userId }, type: { _eq: "xp" } }
    order_by: { createdAt: asc }
  ) {
    amount
    createdAt
    path
    type
  }
  up: transaction(where: { userId: { _eq: $userId }, type: { _eq: "up" } }) {
    amount
    createdAt
    path
    type
  }
  down: transaction(where: { userId: { _eq: $userId }, type: { _eq: "down" } }) {
    amount
    createdAt
    path
    type
  }
  progress(where: { userId: { _eq: $userId } }) {
    grade
    path
    createdAt
    isDone
  }
}`
